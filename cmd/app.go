package cmd

import (
	"database/sql"
	"os"

	"github.com/relops/relmgr/internal/config"
	"github.com/relops/relmgr/internal/db"
	"github.com/relops/relmgr/internal/hooks"
	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/promote"
	"github.com/relops/relmgr/internal/release"
)

// app bundles the wiring every command needs: the database, project config,
// stores, state machine and coordinator.
type app struct {
	db          *sql.DB
	cfg         *config.Project
	store       *manifest.Store
	candidates  *release.CandidateStore
	machine     *release.Machine
	coordinator *promote.Coordinator
}

func openApp() (*app, error) {
	cfgPath, err := config.ProjectConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadProject(cfgPath)
	if err != nil {
		return nil, err
	}
	dbConn, err := db.InitDB()
	if err != nil {
		return nil, err
	}

	runner := hooks.New(dryRun, verbose)
	store := manifest.NewStore(dbConn)
	candidates := release.NewCandidateStore(dbConn)
	machine := release.NewMachine(candidates, store, runner, cfg, logger)
	return &app{
		db:          dbConn,
		cfg:         cfg,
		store:       store,
		candidates:  candidates,
		machine:     machine,
		coordinator: promote.NewCoordinator(store, machine, runner, cfg, logger),
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}

// actor names the operator in the audit log.
func actor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
