package test

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"os/exec"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"wayanadconnect/auth"
	"wayanadconnect/broadcast"
	"wayanadconnect/client"
	"wayanadconnect/httpapi"
	"wayanadconnect/incident"
	"wayanadconnect/test/infra"
)

var flDSN = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")

// TestAPIAgainstPostgres runs the whole stack (pg repositories, services,
// HTTP routes, and the Go client) against a real database.
func TestAPIAgainstPostgres(t *testing.T) {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var (
		pgC *infra.PGContainer
		dsn string
		err error
	)
	switch {
	case *flDSN != "":
		dsn = *flDSN
		pgC = &infra.PGContainer{}
	case os.Getenv("INTEGRATION_TEST_PG_DSN") != "":
		dsn = os.Getenv("INTEGRATION_TEST_PG_DSN")
		pgC = &infra.PGContainer{}
	case dockerAvailable(ctx):
		pgC, dsn, err = infra.StartPostgres16(ctx, "")
		if err != nil {
			t.Fatalf("start postgres: %v", err)
		}
	default:
		t.Skip("no Docker and no INTEGRATION_TEST_PG_DSN; skipping integration test")
	}
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, true)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
		_ = teardown(context.Background())
	})

	authSvc := auth.NewService(auth.NewRepository(pool), "integration-secret", 0)
	incidentSvc := incident.NewService(incident.NewRepository(pool))
	broadcastSvc := broadcast.NewService(broadcast.NewRepository(pool))

	srv := httptest.NewServer(httpapi.Routes(authSvc, incidentSvc, broadcastSvc))
	t.Cleanup(srv.Close)

	t.Run("RegisterCreateResolveStats", func(t *testing.T) {
		api := client.New(srv.URL, client.NewMemorySessionStore())

		account, err := api.Register(ctx, client.RegisterParams{
			Name:        "Anita Resident",
			Email:       "a@x.com",
			Password:    "pw1",
			PhoneNumber: "9876543210",
		})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if account.Role != "user" {
			t.Fatalf("expected default role user, got %q", account.Role)
		}

		var firstID string
		for i := 0; i < 3; i++ {
			created, err := api.CreateIncident(ctx, client.IncidentDraft{
				Title:       fmt.Sprintf("Pothole %d", i),
				Description: "Deep pothole near the bus stand",
				Category:    "Roads",
			})
			if err != nil {
				t.Fatalf("create incident %d: %v", i, err)
			}
			if created.UserID != account.ID {
				t.Fatalf("incident owner %q, expected %q", created.UserID, account.ID)
			}
			if i == 0 {
				firstID = created.ID
			}
		}

		status := "Resolved"
		if _, err := api.UpdateIncident(ctx, firstID, client.IncidentPatch{Status: &status}); err != nil {
			t.Fatalf("resolve incident: %v", err)
		}

		_, stats, err := api.Me(ctx)
		if err != nil {
			t.Fatalf("me: %v", err)
		}
		if stats.Total != 3 || stats.Resolved != 1 || stats.Pending != 2 {
			t.Fatalf("expected stats {3 1 2}, got %+v", stats)
		}

		mine, err := api.Incidents(ctx)
		if err != nil {
			t.Fatalf("list incidents: %v", err)
		}
		if len(mine) != 3 {
			t.Fatalf("expected 3 incidents, got %d", len(mine))
		}
	})

	t.Run("BroadcastAuthorityFlag", func(t *testing.T) {
		api := client.New(srv.URL, client.NewMemorySessionStore())

		account, err := api.Register(ctx, client.RegisterParams{
			Name:     "District Office",
			Email:    "authority@x.com",
			Password: "pw1",
		})
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		alert, err := api.CreateBroadcast(ctx, client.BroadcastDraft{
			Type: "Flood", Severity: "High", Location: "Panamaram", Message: "Avoid the low bridge",
		})
		if err != nil {
			t.Fatalf("create broadcast: %v", err)
		}
		if alert.IsAuthority {
			t.Fatal("ordinary user broadcast must not be authoritative")
		}

		if _, err := pool.Exec(ctx, `UPDATE accounts SET role = 'authority' WHERE id = $1`, account.ID); err != nil {
			t.Fatalf("elevate role: %v", err)
		}

		alert, err = api.CreateBroadcast(ctx, client.BroadcastDraft{
			Type: "Weather", Severity: "Medium", Location: "Vythiri", Message: "Heavy rain expected",
		})
		if err != nil {
			t.Fatalf("create broadcast: %v", err)
		}
		if !alert.IsAuthority {
			t.Fatal("authority broadcast must be flagged")
		}

		// Reads are public: a client with no session sees everything, newest first.
		anon := client.New(srv.URL, client.NewMemorySessionStore())
		alerts, err := anon.Broadcasts(ctx)
		if err != nil {
			t.Fatalf("list broadcasts: %v", err)
		}
		if len(alerts) < 2 {
			t.Fatalf("expected at least 2 broadcasts, got %d", len(alerts))
		}
	})

	t.Run("ConcurrentRegistrations", func(t *testing.T) {
		const workers = 8

		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			w := w
			g.Go(func() error {
				api := client.New(srv.URL, client.NewMemorySessionStore())
				if _, err := api.Register(gctx, client.RegisterParams{
					Name:     fmt.Sprintf("Resident %d", w),
					Email:    fmt.Sprintf("resident%d@x.com", w),
					Password: "pw1",
				}); err != nil {
					return fmt.Errorf("worker %d register: %w", w, err)
				}
				for i := 0; i < 3; i++ {
					if _, err := api.CreateIncident(gctx, client.IncidentDraft{
						Title:       fmt.Sprintf("worker %d report %d", w, i),
						Description: "concurrent submission",
						Category:    "General",
					}); err != nil {
						return fmt.Errorf("worker %d create %d: %w", w, i, err)
					}
				}
				_, stats, err := api.Me(gctx)
				if err != nil {
					return fmt.Errorf("worker %d me: %w", w, err)
				}
				if stats.Total != 3 || stats.Pending != 3 {
					return fmt.Errorf("worker %d: expected stats {3 0 3}, got %+v", w, stats)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatal(err)
		}

		// Duplicate registrations racing on the same email: exactly one wins.
		g2, g2ctx := errgroup.WithContext(ctx)
		successes := make(chan struct{}, workers)
		for w := 0; w < workers; w++ {
			g2.Go(func() error {
				api := client.New(srv.URL, client.NewMemorySessionStore())
				_, err := api.Register(g2ctx, client.RegisterParams{
					Name:     "Duplicate",
					Email:    "dup@x.com",
					Password: "pw1",
				})
				if err == nil {
					successes <- struct{}{}
				}
				return nil
			})
		}
		if err := g2.Wait(); err != nil {
			t.Fatal(err)
		}
		close(successes)
		var won int
		for range successes {
			won++
		}
		if won != 1 {
			t.Fatalf("expected exactly one successful duplicate registration, got %d", won)
		}
	})
}

func dockerAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "info")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}
