package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Target is one upstream provider endpoint to probe.
type Target struct {
	Name string
	URL  string
}

// Monitor periodically probes provider reachability and logs the outcome.
// It is observational only: nothing feeds back into request handling, so no
// state is shared with the resolution pipeline.
type Monitor struct {
	scheduler *gocron.Scheduler
	client    *http.Client
	targets   []Target
	interval  time.Duration
}

// New creates a Monitor over the given targets.
func New(targets []Target, interval time.Duration, client *http.Client) *Monitor {
	s := gocron.NewScheduler(time.UTC)
	return &Monitor{
		scheduler: s,
		client:    client,
		targets:   targets,
		interval:  interval,
	}
}

// Start schedules the periodic probe job and starts the underlying scheduler.
func (m *Monitor) Start() error {
	if len(m.targets) == 0 {
		log.Println("monitor: no providers configured; nothing to probe")
		return nil
	}

	minutes := int(m.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := m.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("monitor: running provider reachability probe")

		var wg sync.WaitGroup
		for _, t := range m.targets {
			t := t
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				m.probe(ctx, t)
			}()
		}
		wg.Wait()
		log.Println("monitor: completed provider reachability probe")
	})
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (m *Monitor) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}

func (m *Monitor) probe(ctx context.Context, t Target) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, t.URL, nil)
	if err != nil {
		log.Printf("monitor: building probe for %s failed: %v", t.Name, err)
		return
	}

	resp, err := m.client.Do(req)
	if err != nil {
		log.Printf("monitor: provider %s unreachable: %v", t.Name, err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		log.Printf("monitor: provider %s degraded (status %d)", t.Name, resp.StatusCode)
		return
	}
	log.Printf("monitor: provider %s reachable (status %d)", t.Name, resp.StatusCode)
}
