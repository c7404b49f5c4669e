package entity

import "time"

// Estados de una orden de reparación.
const (
	OrderStatusReceived       = "RECEIVED"
	OrderStatusDiagnosing     = "DIAGNOSING"
	OrderStatusAwaitingParts  = "AWAITING_PARTS"
	OrderStatusInRepair       = "IN_REPAIR"
	OrderStatusReadyForPickup = "READY_FOR_PICKUP"
	OrderStatusDelivered      = "DELIVERED"
)

// RepairOrder representa la entrada de un vehículo al taller.
// Cliente y vehículo son referencias opacas: se gestionan fuera del ledger.
type RepairOrder struct {
	ID        string
	ClientID  string
	VehicleID string
	Status    string
	CreatedAt time.Time
}
