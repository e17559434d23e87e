package models

// InstrumentSpec — ограничения биржи по инструменту.
type InstrumentSpec struct {
	Symbol   string
	StepSize float64 // qtyStep
	MinQty   float64
	TickSize float64
}
