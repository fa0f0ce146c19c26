// Package app wires storage, services and the assistant facade from config.
package app

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"plantcare/config"
	"plantcare/database"
	assistantsvc "plantcare/pkg/assistant/service"
	assistantimp "plantcare/pkg/assistant/serviceImp"
	"plantcare/pkg/careprofile"
	"plantcare/pkg/notify"
	plantrepo "plantcare/pkg/plant/repositoryImp"
	plantsvc "plantcare/pkg/plant/service"
	plantimp "plantcare/pkg/plant/serviceImp"
	"plantcare/pkg/schedule/poller"
	schedrepo "plantcare/pkg/schedule/repositoryImp"
	schedsvc "plantcare/pkg/schedule/service"
	schedimp "plantcare/pkg/schedule/serviceImp"
)

type App struct {
	DB         *gorm.DB
	Plants     plantsvc.PlantStore
	Schedule   schedsvc.ScheduleManager
	Facade     assistantsvc.Facade
	Profiles   *careprofile.Catalogue
	Transcript *notify.Transcript
	Poller     *poller.Poller // nil when reminders are disabled
}

// Options override pieces for tests.
type Options struct {
	Now func() time.Time
}

func New(cfg config.AppConfig, log *zap.Logger, opts Options) (*App, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	profiles, err := careprofile.Load(cfg.CareProfilesPath)
	if err != nil {
		log.Warn("care profiles not loaded, using builtin", zap.String("path", cfg.CareProfilesPath), zap.Error(err))
	}
	log.Info("care profiles loaded", zap.Int("species", profiles.Len()))

	loc := cfg.Location()
	plants := plantimp.NewPlantService(plantrepo.New(db), log, plantimp.WithClock(opts.Now))
	sched := schedimp.NewScheduleService(schedrepo.New(db), log, schedimp.WithClock(opts.Now), schedimp.WithLocation(loc))
	transcript := notify.NewTranscript(db)

	a := &App{
		DB:         db,
		Plants:     plants,
		Schedule:   sched,
		Facade:     assistantimp.New(plants, sched, profiles, loc, log),
		Profiles:   profiles,
		Transcript: transcript,
	}
	if cfg.RemindersEnabled {
		a.Poller = poller.New(sched, notify.Fanout(notify.NewLog(log), transcript),
			poller.Config{Interval: cfg.ReminderPollInterval, Now: opts.Now}, log)
	}
	return a, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
