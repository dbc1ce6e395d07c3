package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	cartelCmd "github.com/andrescamacho/cartel-go/internal/application/cartel/commands"
	cartelQuery "github.com/andrescamacho/cartel-go/internal/application/cartel/queries"
	"github.com/andrescamacho/cartel-go/internal/application/common"
	missionCmd "github.com/andrescamacho/cartel-go/internal/application/mission/commands"
	missionQuery "github.com/andrescamacho/cartel-go/internal/application/mission/queries"
	missionServices "github.com/andrescamacho/cartel-go/internal/application/mission/services"
	npcCmd "github.com/andrescamacho/cartel-go/internal/application/npc/commands"
	npcQuery "github.com/andrescamacho/cartel-go/internal/application/npc/queries"
	productionCmd "github.com/andrescamacho/cartel-go/internal/application/production/commands"
	productionQuery "github.com/andrescamacho/cartel-go/internal/application/production/queries"
	sweepCmd "github.com/andrescamacho/cartel-go/internal/application/sweeps/commands"
	territoryCmd "github.com/andrescamacho/cartel-go/internal/application/territory/commands"
	territoryQuery "github.com/andrescamacho/cartel-go/internal/application/territory/queries"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/config"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/pidfile"
)

func main() {
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Cartel Daemon v0.1.0")
	fmt.Println("====================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Static tables and shared services
	cat := catalog.Default()
	clock := shared.NewRealClock()
	rng := shared.NewSystemRand()

	if err := database.SeedTerritories(db, cat); err != nil {
		return fmt.Errorf("failed to seed territories: %w", err)
	}
	fmt.Printf("Territory map seeded (%d locations)\n", len(cat.Territories))

	// 3. Repositories
	cartelRepo := persistence.NewGormCartelRepository(db)
	npcRepo := persistence.NewGormNPCRepository(db)
	territoryRepo := persistence.NewGormTerritoryRepository(db)
	missionRepo := persistence.NewGormMissionRepository(db)
	playerLedger := persistence.NewGormPlayerLedger(db)

	// 4. Mediator and handlers
	med := common.NewMediator()

	// Cartel lifecycle
	createCartelHandler := cartelCmd.NewCreateCartelHandler(cartelRepo, playerLedger, cat, clock)
	if err := common.RegisterHandler[*cartelCmd.CreateCartelCommand](med, createCartelHandler); err != nil {
		return fmt.Errorf("failed to register CreateCartel handler: %w", err)
	}

	renameCartelHandler := cartelCmd.NewRenameCartelHandler(cartelRepo, clock)
	if err := common.RegisterHandler[*cartelCmd.RenameCartelCommand](med, renameCartelHandler); err != nil {
		return fmt.Errorf("failed to register RenameCartel handler: %w", err)
	}

	transferFundsHandler := cartelCmd.NewTransferFundsHandler(cartelRepo, playerLedger, clock)
	if err := common.RegisterHandler[*cartelCmd.DepositCommand](med, transferFundsHandler); err != nil {
		return fmt.Errorf("failed to register Deposit handler: %w", err)
	}
	if err := common.RegisterHandler[*cartelCmd.WithdrawCommand](med, transferFundsHandler); err != nil {
		return fmt.Errorf("failed to register Withdraw handler: %w", err)
	}

	overviewHandler := cartelQuery.NewGetOverviewHandler(cartelRepo, npcRepo, territoryRepo, missionRepo, cat, clock)
	if err := common.RegisterHandler[*cartelQuery.GetOverviewQuery](med, overviewHandler); err != nil {
		return fmt.Errorf("failed to register GetOverview handler: %w", err)
	}

	leaderboardHandler := cartelQuery.NewLeaderboardHandler(cartelRepo)
	if err := common.RegisterHandler[*cartelQuery.LeaderboardQuery](med, leaderboardHandler); err != nil {
		return fmt.Errorf("failed to register Leaderboard handler: %w", err)
	}

	// NPC roster
	hireHandler := npcCmd.NewHireNPCHandler(cartelRepo, npcRepo, cat, clock, rng)
	if err := common.RegisterHandler[*npcCmd.HireNPCCommand](med, hireHandler); err != nil {
		return fmt.Errorf("failed to register HireNPC handler: %w", err)
	}

	fireHandler := npcCmd.NewFireNPCHandler(npcRepo)
	if err := common.RegisterHandler[*npcCmd.FireNPCCommand](med, fireHandler); err != nil {
		return fmt.Errorf("failed to register FireNPC handler: %w", err)
	}

	assignHandler := npcCmd.NewAssignNPCHandler(npcRepo, cat)
	if err := common.RegisterHandler[*npcCmd.AssignNPCCommand](med, assignHandler); err != nil {
		return fmt.Errorf("failed to register AssignNPC handler: %w", err)
	}

	recoverHandler := npcCmd.NewRecoverNPCHandler(cartelRepo, npcRepo, cat, clock)
	if err := common.RegisterHandler[*npcCmd.HealNPCCommand](med, recoverHandler); err != nil {
		return fmt.Errorf("failed to register HealNPC handler: %w", err)
	}
	if err := common.RegisterHandler[*npcCmd.BailOutNPCCommand](med, recoverHandler); err != nil {
		return fmt.Errorf("failed to register BailOutNPC handler: %w", err)
	}

	rosterHandler := npcQuery.NewGetRosterHandler(npcRepo, cat)
	if err := common.RegisterHandler[*npcQuery.GetRosterQuery](med, rosterHandler); err != nil {
		return fmt.Errorf("failed to register GetRoster handler: %w", err)
	}

	// Production pipeline
	buildLabHandler := productionCmd.NewBuildLabHandler(cartelRepo, territoryRepo, cat, clock)
	if err := common.RegisterHandler[*productionCmd.BuildLabCommand](med, buildLabHandler); err != nil {
		return fmt.Errorf("failed to register BuildLab handler: %w", err)
	}

	labRosterHandler := productionCmd.NewLabRosterHandler(cartelRepo, cat, clock)
	if err := common.RegisterHandler[*productionCmd.UpgradeLabCommand](med, labRosterHandler); err != nil {
		return fmt.Errorf("failed to register UpgradeLab handler: %w", err)
	}
	if err := common.RegisterHandler[*productionCmd.DestroyLabCommand](med, labRosterHandler); err != nil {
		return fmt.Errorf("failed to register DestroyLab handler: %w", err)
	}

	startProductionHandler := productionCmd.NewStartProductionHandler(cartelRepo, cat, clock)
	if err := common.RegisterHandler[*productionCmd.StartProductionCommand](med, startProductionHandler); err != nil {
		return fmt.Errorf("failed to register StartProduction handler: %w", err)
	}

	collectBatchHandler := productionCmd.NewCollectBatchHandler(cartelRepo, cat, clock)
	if err := common.RegisterHandler[*productionCmd.CollectBatchCommand](med, collectBatchHandler); err != nil {
		return fmt.Errorf("failed to register CollectBatch handler: %w", err)
	}

	labStatusHandler := productionQuery.NewGetLabStatusHandler(cartelRepo, cat, clock)
	if err := common.RegisterHandler[*productionQuery.GetLabStatusQuery](med, labStatusHandler); err != nil {
		return fmt.Errorf("failed to register GetLabStatus handler: %w", err)
	}

	// Territory control and market
	claimHandler := territoryCmd.NewClaimTerritoryHandler(cartelRepo, territoryRepo, cat, clock)
	if err := common.RegisterHandler[*territoryCmd.ClaimTerritoryCommand](med, claimHandler); err != nil {
		return fmt.Errorf("failed to register ClaimTerritory handler: %w", err)
	}

	sellHandler := territoryCmd.NewSellDrugsHandler(cartelRepo, npcRepo, territoryRepo, cat, clock)
	if err := common.RegisterHandler[*territoryCmd.SellDrugsCommand](med, sellHandler); err != nil {
		return fmt.Errorf("failed to register SellDrugs handler: %w", err)
	}

	buyUpgradeHandler := territoryCmd.NewBuyUpgradeHandler(cartelRepo, territoryRepo, cat, clock)
	if err := common.RegisterHandler[*territoryCmd.BuyUpgradeCommand](med, buyUpgradeHandler); err != nil {
		return fmt.Errorf("failed to register BuyUpgrade handler: %w", err)
	}

	worldMapHandler := territoryQuery.NewGetWorldMapHandler(territoryRepo, cat)
	if err := common.RegisterHandler[*territoryQuery.GetWorldMapQuery](med, worldMapHandler); err != nil {
		return fmt.Errorf("failed to register GetWorldMap handler: %w", err)
	}

	// Mission engine
	startMissionHandler := missionCmd.NewStartMissionHandler(cartelRepo, npcRepo, territoryRepo, missionRepo, cat, clock)
	if err := common.RegisterHandler[*missionCmd.StartDeliveryCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartDelivery handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartSmugglingCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartSmuggling handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartRaidCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartRaid handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartSeizureCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartSeizure handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartSabotageCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartSabotage handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartAssassinationCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartAssassination handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartCorruptionCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartCorruption handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartIntimidationCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartIntimidation handler: %w", err)
	}
	if err := common.RegisterHandler[*missionCmd.StartHeistCommand](med, startMissionHandler); err != nil {
		return fmt.Errorf("failed to register StartHeist handler: %w", err)
	}

	resolver := missionServices.NewResolver(cartelRepo, npcRepo, territoryRepo, missionRepo, cat, clock, rng)
	limiter := rate.NewLimiter(rate.Limit(cfg.Daemon.SweepRate), cfg.Daemon.SweepBurst)
	missionSweepHandler := missionCmd.NewRunMissionSweepHandler(missionRepo, npcRepo, resolver, clock, limiter)
	if err := common.RegisterHandler[*missionCmd.RunMissionSweepCommand](med, missionSweepHandler); err != nil {
		return fmt.Errorf("failed to register RunMissionSweep handler: %w", err)
	}

	listMissionsHandler := missionQuery.NewListMissionsHandler(missionRepo, clock)
	if err := common.RegisterHandler[*missionQuery.ListMissionsQuery](med, listMissionsHandler); err != nil {
		return fmt.Errorf("failed to register ListMissions handler: %w", err)
	}

	// Hourly sweeps
	heatSweepHandler := sweepCmd.NewRunHeatSweepHandler(cartelRepo, npcRepo, territoryRepo, cat, clock, rng)
	if err := common.RegisterHandler[*sweepCmd.RunHeatSweepCommand](med, heatSweepHandler); err != nil {
		return fmt.Errorf("failed to register RunHeatSweep handler: %w", err)
	}

	payrollSweepHandler := sweepCmd.NewRunPayrollSweepHandler(cartelRepo, npcRepo, cat)
	if err := common.RegisterHandler[*sweepCmd.RunPayrollSweepCommand](med, payrollSweepHandler); err != nil {
		return fmt.Errorf("failed to register RunPayrollSweep handler: %w", err)
	}

	rosterSweepHandler := sweepCmd.NewRunRosterSweepHandler(cartelRepo, npcRepo, cat, clock, rng)
	if err := common.RegisterHandler[*sweepCmd.RunRosterSweepCommand](med, rosterSweepHandler); err != nil {
		return fmt.Errorf("failed to register RunRosterSweep handler: %w", err)
	}

	marketSweepHandler := sweepCmd.NewRunMarketSweepHandler(territoryRepo, cat)
	if err := common.RegisterHandler[*sweepCmd.RunMarketSweepCommand](med, marketSweepHandler); err != nil {
		return fmt.Errorf("failed to register RunMarketSweep handler: %w", err)
	}

	// 5. Scheduler loop
	logger := common.NewStdLogger(logLevel(cfg.Logging.Level))
	ctx, cancel := context.WithCancel(common.WithLogger(context.Background(), logger))
	defer cancel()

	fmt.Printf("Mission sweep every %s, hourly sweeps every %s\n",
		cfg.Daemon.MissionSweepInterval, cfg.Daemon.HourlySweepInterval)
	fmt.Println("\nDaemon is running. Press Ctrl+C to stop")

	missionTicker := time.NewTicker(cfg.Daemon.MissionSweepInterval)
	defer missionTicker.Stop()
	hourlyTicker := time.NewTicker(cfg.Daemon.HourlySweepInterval)
	defer hourlyTicker.Stop()
	healthTicker := time.NewTicker(cfg.Daemon.HealthInterval)
	defer healthTicker.Stop()

	startedAt := time.Now()
	var missionSweeps, hourlySweeps int
	var lastMissionSweep, lastHourlySweep time.Duration

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-missionTicker.C:
			began := time.Now()
			if _, err := med.Send(ctx, &missionCmd.RunMissionSweepCommand{}); err != nil {
				logger.Log("ERROR", "mission sweep failed", map[string]interface{}{"error": err.Error()})
			}
			missionSweeps++
			lastMissionSweep = time.Since(began)
		case <-hourlyTicker.C:
			began := time.Now()
			for _, cmd := range []common.Request{
				&sweepCmd.RunHeatSweepCommand{},
				&sweepCmd.RunPayrollSweepCommand{},
				&sweepCmd.RunRosterSweepCommand{},
				&sweepCmd.RunMarketSweepCommand{},
			} {
				if _, err := med.Send(ctx, cmd); err != nil {
					logger.Log("ERROR", "hourly sweep failed", map[string]interface{}{"error": err.Error()})
				}
			}
			hourlySweeps++
			lastHourlySweep = time.Since(began)
		case <-healthTicker.C:
			logger.Log("INFO", "daemon health", map[string]interface{}{
				"uptime":             time.Since(startedAt).Round(time.Second).String(),
				"mission_sweeps":     missionSweeps,
				"hourly_sweeps":      hourlySweeps,
				"last_mission_sweep": lastMissionSweep.Round(time.Millisecond).String(),
				"last_hourly_sweep":  lastHourlySweep.Round(time.Millisecond).String(),
			})
		case sig := <-sigCh:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			cancel()
			fmt.Println("Daemon stopped")
			return nil
		}
	}
}

func logLevel(level string) string {
	switch level {
	case "debug":
		return "DEBUG"
	case "warn":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}
