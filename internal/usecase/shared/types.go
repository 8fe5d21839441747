package shared

import (
	"github.com/google/uuid"
)

type CustomerSnapshot struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type VehicleSnapshot struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
	Make    string
	Model   string
}

type ServiceCenterSnapshot struct {
	ID          uuid.UUID
	Name        string
	Email       string
	PhoneNumber string
}

type PartUsage struct {
	Name           string
	UnitPriceCents int64
	Quantity       int
}

type JobCardSnapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Parts       []PartUsage
}
