// Package events defines the closed set of notifications emitted by the marketplace services
// and the typed Bus that delivers them.
//
// Delivery is synchronous and follows subscription order. Handlers receive values that
// share no mutable state with the emitting service, so they may keep or modify them freely.
// A handler that panics is recovered and logged; the remaining handlers still run.
//
// Example:
//
//	bus := events.NewBus(logger)
//	cancel := events.Subscribe(bus, func(e events.OrderUpdated) {
//		fmt.Println(e.OrderID, e.OldStatus, "->", e.NewStatus)
//	})
//	defer cancel()
package events
