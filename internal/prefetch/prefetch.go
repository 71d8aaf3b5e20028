package prefetch

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/samber/do/v2"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/render"
	"github.com/willie68/go_vtrender/internal/tiles"
	"github.com/willie68/go_vtrender/pkg/extstrgutils"
)

const numWorkers = 16

var log = logging.New().WithName("prefetch")

type renderer interface {
	HasProvider(providerName string) bool
	Render(tile model.Tile) (*render.Bundle, error)
}

// Stats counts the results of a prefetch run
type Stats struct {
	Rendered  int64
	NoContent int64
	Failed    int64
}

func (s Stats) Total() int64 {
	return s.Rendered + s.NoContent + s.Failed
}

// Prefetch renders every tile of the providers up to maxzoom, the providers are given as csv
func Prefetch(inj do.Injector, providers string, maxzoom int) (Stats, error) {
	names := extstrgutils.SplitUniqueParam(providers)
	if len(names) == 0 {
		return Stats{}, nil
	}
	return Run(do.MustInvokeAs[renderer](inj), names, maxzoom)
}

// Run renders the tiles with a pool of workers
func Run(r renderer, providers []string, maxzoom int) (Stats, error) {
	if maxzoom < 0 || maxzoom > 30 {
		return Stats{}, fmt.Errorf("invalid prefetch zoom %d", maxzoom)
	}
	for _, p := range providers {
		if !r.HasProvider(p) {
			return Stats{}, fmt.Errorf("unknown provider %s", p)
		}
	}

	var rendered, noContent, failed atomic.Int64
	jobs := make(chan model.Tile, 1000)
	wg := sync.WaitGroup{}

	for range numWorkers {
		wg.Go(func() {
			for j := range jobs {
				_, err := r.Render(j)
				switch {
				case err == nil:
					rendered.Add(1)
				case errors.Is(err, tiles.ErrNoContent):
					noContent.Add(1)
				default:
					failed.Add(1)
					log.Errorf("error rendering tile %s: %v", j.String(), err)
				}
			}
		})
	}

	for _, p := range providers {
		log.Infof("prefetching %s up to zoom %d", p, maxzoom)
		for z := range maxzoom + 1 {
			rg := 1 << z
			for x := range rg {
				for y := range rg {
					jobs <- model.Tile{
						Provider: p,
						X:        x,
						Y:        y,
						Z:        z,
					}
				}
			}
		}
	}
	close(jobs)
	wg.Wait()

	stats := Stats{
		Rendered:  rendered.Load(),
		NoContent: noContent.Load(),
		Failed:    failed.Load(),
	}
	log.Infof("prefetch done: %s rendered, %s without content, %s failed",
		humanize.Comma(stats.Rendered), humanize.Comma(stats.NoContent), humanize.Comma(stats.Failed))
	return stats, nil
}
