package world

// stepResets drives every store's reset countdown by one tick. An expired
// countdown copies the immutable template over the working catalog and
// broadcasts the restored state. This runs on the same goroutine as trades,
// so a reset can never interleave with a half-applied transfer.
func (w *World) stepResets() {
	for _, st := range w.stores {
		st.resetRemaining--
		if st.resetRemaining > 0 {
			continue
		}
		st.working.Apply(st.template)
		st.resetRemaining = w.cfg.StoreResetTicks
		w.log.Printf("store %d: catalog reset to template", st.number)
		w.broadcastStore(st)
	}
}
