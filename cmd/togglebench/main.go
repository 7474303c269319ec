// togglebench measures confirmed toggle round-trips end to end: SDK engine →
// HTTP → stub services → sqlite, reporting latency percentiles.
//
// Env knobs: N (toggles, default 1000), CONC (workers, default 8).
package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/api"
	"github.com/d60-Lab/doremi/internal/api/handler"
	"github.com/d60-Lab/doremi/internal/client"
	"github.com/d60-Lab/doremi/internal/lifecycle"
	"github.com/d60-Lab/doremi/internal/repository"
	"github.com/d60-Lab/doremi/internal/service"
	"github.com/d60-Lab/doremi/internal/social"
	"github.com/d60-Lab/doremi/internal/toggle"
	"github.com/d60-Lab/doremi/pkg/database"
)

const jwtSecret = "togglebench"

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func main() {
	n := envInt("N", 1000)
	conc := envInt("CONC", 8)

	db := must(database.Open(""))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	engagements := repository.NewEngagementRepository(db)
	follows := repository.NewFollowRepository(db)
	hashtags := repository.NewHashtagRepository(db)
	timeline := repository.NewTimelineRepository(db)

	authSvc := service.NewAuthService(users, jwtSecret, time.Hour)
	postSvc := service.NewPostService(db, posts, users, engagements, hashtags, timeline)
	h := handler.New(
		authSvc,
		postSvc,
		service.NewCommentService(comments, posts, users),
		service.NewEngagementService(engagements, posts),
		service.NewRelationshipService(follows, nil, time.Minute),
		service.NewHashtagService(hashtags),
		zap.NewNop(),
	)
	srv := httptest.NewServer(api.NewRouter(h, zap.NewNop(), api.Options{JWTSecret: jwtSecret}))
	defer srv.Close()

	ctx := context.Background()
	if err := authSvc.Register(ctx, service.RegisterInput{
		UserID: "bench", Password: "bench-pass", Name: "bench", Sex: "M", BirthDate: "19900101",
	}); err != nil {
		panic(err)
	}
	token, _, err := authSvc.Login(ctx, "bench", "bench-pass")
	if err != nil {
		panic(err)
	}

	postIDs := make([]int64, n)
	for i := range postIDs {
		postIDs[i] = must(postSvc.Publish(ctx, "bench", fmt.Sprintf("post %d", i), "", ""))
	}

	sdk := social.New(client.New(srv.URL+"/api",
		client.WithHTTPClient(srv.Client()),
		client.WithTokenSource(staticToken(token)),
	))

	latencies := make([]time.Duration, n)
	feedCh := make(chan int, n)
	for i := 0; i < n; i++ {
		feedCh <- i
	}
	close(feedCh)

	t0 := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := toggle.NewEngine(toggle.LikeOp{API: sdk}, "bench", lifecycle.NewScope(), nil)
			for i := range feedCh {
				subject := strconv.FormatInt(postIDs[i], 10)
				st := time.Now()
				e.Toggle(ctx, subject)
				e.Wait()
				latencies[i] = time.Since(st)
				if snap := e.Snapshot(subject); snap.LastError != "" {
					fmt.Fprintln(os.Stderr, "toggle failed:", snap.LastError)
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(t0)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	fmt.Printf("toggles=%d conc=%d elapsed=%v rate=%.0f/s\n", n, conc, elapsed, float64(n)/elapsed.Seconds())
	fmt.Printf("p50=%v p95=%v p99=%v max=%v\n",
		percentile(latencies, 0.50),
		percentile(latencies, 0.95),
		percentile(latencies, 0.99),
		latencies[len(latencies)-1])
}

// staticToken satisfies client.TokenSource with a fixed token.
type staticToken string

func (t staticToken) Token() (string, bool) { return string(t), true }
func (staticToken) Clear()                  {}
