package handler

import (
	"time"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	Cycle      *CycleHandler
	School     *SchoolHandler
	Program    *ProgramHandler
	Delivery   *DeliveryHandler
	Reminder   *ReminderHandler
	Event      *EventHandler
	Admin      *AdminHandler
	Circular05 *Circular05Handler
	Resource   *ResourceHandler
	Export     *ExportHandler
}

// NewHandler creates the handler set. loc is the portal timezone.
func NewHandler(svc *service.Service, cfg *config.Config, loc *time.Location) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, &cfg.Auth),
		Cycle:      NewCycleHandler(svc.Cycle),
		School:     NewSchoolHandler(svc.School),
		Program:    NewProgramHandler(svc.Program, svc.Period),
		Delivery:   NewDeliveryHandler(svc.Delivery),
		Reminder:   NewReminderHandler(svc.Reminder, svc.Status, loc),
		Event:      NewEventHandler(svc.Event),
		Admin:      NewAdminHandler(svc.Admin),
		Circular05: NewCircular05Handler(svc.Circular05),
		Resource:   NewResourceHandler(svc.Resource),
		Export:     NewExportHandler(svc.Export, svc.Calendar),
	}
}
