package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/bookmarks/config"
	"github.com/d60-Lab/bookmarks/internal/ranking"
	"github.com/d60-Lab/bookmarks/pkg/cache"
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
	ctx := context.Background()
	cfg := must(config.Load())
	rdb := must(cache.NewRedis(ctx, cfg))
	defer rdb.Close()

	ITEMS := envInt("ITEMS", 1000)
	VIEWS := envInt("VIEWS", 50000)
	CONC := envInt("CONC", 16)
	TOPN := envInt("TOPN", cfg.Ranking.TopN)

	// 独立 key，避免污染线上排行
	key := fmt.Sprintf("rankbench:%d", time.Now().UnixNano())
	defer rdb.Del(ctx, key)

	run := func(atomic bool) []time.Duration {
		store := ranking.NewStore(rdb, ranking.Options{Key: key, ViewsPrefix: key, Atomic: atomic})
		feed := make(chan int, VIEWS)
		for i := 0; i < VIEWS; i++ {
			// 偏斜分布：少数热门条目拿走大部分浏览
			feed <- int(math.Pow(rand.Float64(), 3) * float64(ITEMS))
		}
		close(feed)

		var mu sync.Mutex
		out := make([]time.Duration, 0, VIEWS)
		var wg sync.WaitGroup
		for w := 0; w < CONC; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				local := make([]time.Duration, 0, VIEWS/CONC+1)
				for item := range feed {
					st := time.Now()
					if _, err := store.RecordView(ctx, strconv.Itoa(item)); err != nil {
						panic(err)
					}
					local = append(local, time.Since(st))
				}
				mu.Lock()
				out = append(out, local...)
				mu.Unlock()
			}()
		}
		wg.Wait()
		return out
	}

	separate := run(false)
	atomic := run(true)

	store := ranking.NewStore(rdb, ranking.Options{Key: key, ViewsPrefix: key})
	tops := make([]time.Duration, 0, 1000)
	var top []ranking.Entry
	for i := 0; i < 1000; i++ {
		st := time.Now()
		top = must(store.TopWithScores(ctx, TOPN))
		tops = append(tops, time.Since(st))
	}

	fmt.Printf("ITEMS=%d VIEWS=%d CONC=%d TOPN=%d\n", ITEMS, VIEWS, CONC, TOPN)
	fmt.Printf("RecordView (2 round-trips): p50=%v p95=%v p99=%v\n", pct(separate, 0.50), pct(separate, 0.95), pct(separate, 0.99))
	fmt.Printf("RecordView (MULTI/EXEC):    p50=%v p95=%v p99=%v\n", pct(atomic, 0.50), pct(atomic, 0.95), pct(atomic, 0.99))
	fmt.Printf("Top(%d): p50=%v p95=%v p99=%v\n", TOPN, pct(tops, 0.50), pct(tops, 0.95), pct(tops, 0.99))
	for i, e := range top {
		if i >= 3 {
			break
		}
		fmt.Printf("  #%d item=%s views=%d\n", i+1, e.ItemID, e.Score)
	}
	// 清理计数 key
	iter := rdb.Scan(ctx, 0, key+":*", 1000).Iterator()
	for iter.Next(ctx) {
		rdb.Del(ctx, iter.Val())
	}
}
