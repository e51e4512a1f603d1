package main

import (
	"guard-matching/internal/common/aws"
	"guard-matching/internal/common/camunda"
	"guard-matching/internal/common/config"
	"guard-matching/internal/common/logger"
	"guard-matching/internal/common/observability"
	"guard-matching/internal/common/validation"
	"guard-matching/internal/services"
	"guard-matching/internal/store"

	igp "guard-matching/internal/workers/catalog/index-guard-profile"
	sg "guard-matching/internal/workers/catalog/search-guards"
	fag "guard-matching/internal/workers/matching/find-alternative-guards"
	fbm "guard-matching/internal/workers/matching/find-best-matches"
	rg "guard-matching/internal/workers/matching/recommend-guards"
	sbn "guard-matching/internal/workers/notification/send-booking-notification"
	bgs "guard-matching/internal/workers/scheduling/book-guard-slot"
	cgs "guard-matching/internal/workers/scheduling/cancel-guard-slot"
	csa "guard-matching/internal/workers/scheduling/check-slot-availability"
	ga "guard-matching/internal/workers/scheduling/generate-availability"
	gga "guard-matching/internal/workers/scheduling/get-guard-availability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

type dependencies struct {
	cfg       *config.Config
	log       logger.Logger
	validator *validation.Validator

	guards  *store.GuardStore
	roster  *store.CachedRoster
	geo     *store.GeoIndex
	catalog *store.Catalog

	notifier *aws.Notifier

	match        *services.MatchService
	search       *services.SearchService
	availability *services.AvailabilityService
}

func registerWorkers(client zbc.Client, d *dependencies, obs *observability.Observability, zapLog *zap.Logger) []worker.JobWorker {
	// A nil *store.Catalog must not turn into a non-nil interface.
	var indexer igp.CatalogIndexer
	if d.catalog != nil {
		indexer = d.catalog
	}

	handlers := map[string]func(config.WorkerConfig) camunda.JobHandler{
		fbm.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return fbm.NewHandler(fbm.LoadConfig(wc), d.match, d.validator, d.log)
		},
		fag.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return fag.NewHandler(fag.LoadConfig(wc), d.match, d.validator, d.log)
		},
		rg.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return rg.NewHandler(rg.LoadConfig(wc), d.match, d.validator, d.log)
		},
		sg.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return sg.NewHandler(sg.LoadConfig(wc), d.search, d.validator, d.log)
		},
		igp.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return igp.NewHandler(igp.LoadConfig(wc), d.guards, indexer, d.geo, d.roster, d.validator, d.log)
		},
		csa.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return csa.NewHandler(csa.LoadConfig(wc), d.availability, d.validator, d.log)
		},
		bgs.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return bgs.NewHandler(bgs.LoadConfig(wc), d.availability, d.validator, d.log)
		},
		cgs.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return cgs.NewHandler(cgs.LoadConfig(wc), d.availability, d.validator, d.log)
		},
		ga.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return ga.NewHandler(ga.LoadConfig(wc), d.availability, d.validator, d.log)
		},
		gga.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return gga.NewHandler(gga.LoadConfig(wc), d.availability, d.validator, d.log)
		},
		sbn.TaskType: func(wc config.WorkerConfig) camunda.JobHandler {
			return sbn.NewHandler(sbn.LoadConfig(wc), d.guards, d.notifier, d.validator, d.log)
		},
	}

	var opened []worker.JobWorker
	for taskType, build := range handlers {
		wc := config.GetWorkerConfig(d.cfg, taskType)
		if !wc.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			continue
		}

		w := camunda.StartWorker(client, taskType, wc, camunda.Instrument(taskType, build(wc), obs))
		opened = append(opened, w)

		zapLog.Info("worker started",
			zap.String("taskType", taskType),
			zap.Int("maxJobsActive", wc.MaxJobsActive),
			zap.Int("timeout_ms", wc.Timeout),
		)
	}
	return opened
}
