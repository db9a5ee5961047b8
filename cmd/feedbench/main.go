package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/bookmarks/config"
	"github.com/d60-Lab/bookmarks/internal/model"
	"github.com/d60-Lab/bookmarks/internal/repository"
	"github.com/d60-Lab/bookmarks/internal/service"
	"github.com/d60-Lab/bookmarks/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	imageRepo := repository.NewImageRepository(db)
	actionRepo := repository.NewActionRepository(db)
	actions := service.NewActionService(actionRepo, followRepo, userRepo, imageRepo, service.ActionOptions{})

	USERS := envInt("USERS", 2000)
	FOLLOWS := envInt("FOLLOWS", 50)    // followees per reader
	ACTIONS := envInt("ACTIONS", 20000) // recorded actions
	READS := envInt("READS", 500)       // feed reads
	ctx := context.Background()

	// seed users
	users := make([]model.User, USERS)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: "p"}
	}
	if err := db.CreateInBatches(&users, 1000).Error; err != nil {
		panic(err)
	}
	reader := users[0].ID
	for i := 1; i <= FOLLOWS && i < USERS; i++ {
		_, _ = followRepo.Create(ctx, reader, users[i].ID)
	}

	// record: 每 4 次中有一次是刚写过的重复动作，应被去重
	recDurations := make([]time.Duration, 0, ACTIONS)
	recorded, suppressed := 0, 0
	var actor string
	for i := 0; i < ACTIONS; i++ {
		target := model.ImageTarget{ID: uint64(i)}
		if i%4 == 3 {
			target = model.ImageTarget{ID: uint64(i - 1)}
		} else {
			actor = users[rand.Intn(USERS)].ID
		}
		st := time.Now()
		ok, err := actions.Record(ctx, actor, model.VerbLikes, target)
		recDurations = append(recDurations, time.Since(st))
		if err != nil {
			panic(err)
		}
		if ok {
			recorded++
		} else {
			suppressed++
		}
	}

	// feed reads: following vs everyone
	following := make([]time.Duration, 0, READS)
	everyone := make([]time.Duration, 0, READS)
	for i := 0; i < READS; i++ {
		st := time.Now()
		_, _ = actions.RecentFeed(ctx, reader, reader, 10)
		following = append(following, time.Since(st))

		st = time.Now()
		_, _ = actions.RecentFeed(ctx, reader, "", 10)
		everyone = append(everyone, time.Since(st))
	}

	fmt.Printf("USERS=%d FOLLOWS=%d ACTIONS=%d READS=%d\n", USERS, FOLLOWS, ACTIONS, READS)
	fmt.Printf("Record: recorded=%d suppressed=%d p50=%v p95=%v p99=%v\n",
		recorded, suppressed, pct(recDurations, 0.50), pct(recDurations, 0.95), pct(recDurations, 0.99))
	fmt.Printf("Feed (following): p50=%v p95=%v p99=%v\n", pct(following, 0.50), pct(following, 0.95), pct(following, 0.99))
	fmt.Printf("Feed (everyone):  p50=%v p95=%v p99=%v\n", pct(everyone, 0.50), pct(everyone, 0.95), pct(everyone, 0.99))
}
