// Package scheduler keeps the served catalog in step with its source file
// and re-runs the model asset audit in the background.
package scheduler

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/carpenike/catalogsync/internal/audit"
	"github.com/carpenike/catalogsync/internal/catalog"
	"github.com/carpenike/catalogsync/internal/importers"
	"github.com/carpenike/catalogsync/internal/models"
)

// Options configures the background tasks. Both tasks are optional.
type Options struct {
	CatalogPath string        // source file reloaded when its mtime changes
	Models      fs.FS         // models directory checked by the asset audit
	Interval    time.Duration // time between runs

	// Alert, when set, receives a message whenever the set of problems
	// (reload error, missing assets) changes to a non-empty one.
	Alert func(msg string)
}

// Status holds the result of the last run.
type Status struct {
	LastRun      time.Time
	NextRun      time.Time
	LastReload   time.Time
	ReloadSource string
	Categories   int
	LastError    string
	Audit        *audit.Report
	AuditedAt    time.Time
}

// Scheduler runs catalog reloads and asset audits in the background.
type Scheduler struct {
	db    *sql.DB
	store *catalog.Store
	opts  Options
	stop  chan struct{}
	done  chan struct{}

	// catalogMod is only touched by the run goroutine (or RunOnce callers
	// before Start).
	catalogMod time.Time
	lastAlert  string

	mu     sync.RWMutex
	status Status
}

// New creates a Scheduler that stores reloaded catalogs in db and serves
// them through store.
func New(db *sql.DB, store *catalog.Store, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	return &Scheduler{
		db:    db,
		store: store,
		opts:  opts,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start begins running the tasks. It runs an initial pass immediately,
// then repeats at the configured interval. Call Stop to shut down gracefully.
func (s *Scheduler) Start() {
	go s.run()
	log.Printf("scheduler: started (interval %s)", s.opts.Interval)
}

// Stop signals the scheduler to shut down and waits for it to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

// Status returns the result of the last run.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.RunOnce()

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stop:
			return
		}
	}
}

// RunOnce performs one reload check and one audit synchronously. The audit
// walks the models directory before the status lock is taken, so Status
// stays responsive during a long walk.
func (s *Scheduler) RunOnce() {
	now := time.Now()

	reloaded, reloadErr := s.reloadCatalog()
	current := s.store.Load()

	var (
		report   audit.Report
		auditErr error
	)
	if s.opts.Models != nil {
		report, auditErr = audit.Run(s.opts.Models, current)
	}

	var problems []string
	if reloadErr != nil {
		log.Printf("scheduler: %v", reloadErr)
		problems = append(problems, "catalog reload failed: "+reloadErr.Error())
	}
	if auditErr != nil {
		log.Printf("scheduler: asset audit: %v", auditErr)
		problems = append(problems, "asset audit failed: "+auditErr.Error())
	}
	if s.opts.Models != nil && auditErr == nil && !report.OK() {
		msg := fmt.Sprintf("%d of %d product(s) missing model assets", len(report.Missing), report.Products)
		log.Printf("scheduler: %s", msg)
		problems = append(problems, msg)
	}

	s.mu.Lock()
	s.status.LastRun = now
	s.status.NextRun = now.Add(s.opts.Interval)
	s.status.Categories = current.Len()
	s.status.LastError = ""
	switch {
	case reloadErr != nil:
		s.status.LastError = reloadErr.Error()
	case auditErr != nil:
		s.status.LastError = auditErr.Error()
	}
	if reloaded {
		s.status.LastReload = now
		s.status.ReloadSource = filepath.Base(s.opts.CatalogPath)
	}
	if s.opts.Models != nil && auditErr == nil {
		s.status.Audit = &report
		s.status.AuditedAt = now
	}
	s.mu.Unlock()

	s.alert(problems)
}

// alert reports problems through Options.Alert unless they are the same as
// on the previous run.
func (s *Scheduler) alert(problems []string) {
	msg := ""
	if len(problems) > 0 {
		msg = "catalogsync: " + strings.Join(problems, "; ")
	}
	if msg == s.lastAlert {
		return
	}
	s.lastAlert = msg
	if msg != "" && s.opts.Alert != nil {
		s.opts.Alert(msg)
	}
}

// reloadCatalog re-imports the catalog source file when its modification
// time differs from the last successful import.
func (s *Scheduler) reloadCatalog() (bool, error) {
	path := s.opts.CatalogPath
	if path == "" {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat catalog file: %w", err)
	}
	if info.ModTime().Equal(s.catalogMod) {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	c, err := importers.Parse(path, f)
	if err != nil {
		return false, fmt.Errorf("parse catalog file: %w", err)
	}
	if _, err := models.ReplaceCatalog(s.db, c, filepath.Base(path)); err != nil {
		return false, fmt.Errorf("store catalog: %w", err)
	}

	s.store.Swap(c)
	s.catalogMod = info.ModTime()
	log.Printf("scheduler: reloaded catalog from %s (%d categories, %d products)", path, c.Len(), c.ProductCount())
	return true, nil
}
