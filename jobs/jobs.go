package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"Aarogyam/store"
	"Aarogyam/util"

	"github.com/robfig/cron/v3"
)

// Scheduler warms the per-doctor cache of today's appointments so the doctor
// dashboard reads don't hit the appointment ledger every time.
type Scheduler struct {
	store store.Store
	cache store.Cache
}

func NewScheduler(s store.Store, cache store.Cache) *Scheduler {
	return &Scheduler{store: s, cache: cache}
}

func (s *Scheduler) StartDailyScheduler() *cron.Cron {
	c := cron.New()

	// Runs every day at 00:05 AM
	c.AddFunc("5 0 * * *", func() {
		log.Println("Running Daily Appointment Cache Warmer...")
		s.WarmTodayAppointments(context.Background())
	})

	c.Start()
	return c
}

/*
* For every doctor, fetch today's appointments and cache them for the day
* A doctor that fails to warm is skipped, the rest continue
 */
func (s *Scheduler) WarmTodayAppointments(ctx context.Context) {
	doctors, err := s.store.ListDoctors(ctx)
	if err != nil {
		log.Println("Error while listing doctors for cache warm: ", err)
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, d := range doctors {
		doctorID := d.ID
		appointments, err := s.store.SearchAppointments(ctx, store.AppointmentFilter{
			DoctorID: &doctorID,
			Date:     &today,
		})
		if err != nil {
			log.Println("Error while fetching today's appointments for doctor: ", doctorID.Hex(), err)
			continue
		}
		payload, err := json.Marshal(appointments)
		if err != nil {
			log.Println("Error while marshaling appointments for doctor: ", doctorID.Hex(), err)
			continue
		}
		if err := s.cache.SetCache(ctx, util.DoctorTodayKey+doctorID.Hex(), payload, 24*time.Hour); err != nil {
			log.Println("Error while warming cache for doctor: ", doctorID.Hex(), err)
		}
	}
}
