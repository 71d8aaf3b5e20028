package measurement

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/do/v2"
)

// Config of the measurement, part of the service config
type Config struct {
	Active bool `yaml:"active"`
}

// Service collects timing points by name
type Service struct {
	active bool
	plock  sync.Mutex
	points map[string]*Point
}

type Data struct {
	Name      string `json:"name"`
	Min       int64  `json:"min"`
	Max       int64  `json:"max"`
	Average   int64  `json:"average"`
	Total     int64  `json:"total"`
	Count     int    `json:"count"`
	Errors    int    `json:"errors"`
	MaxActive int    `json:"maxActive"`
}

func New(active bool) *Service {
	return &Service{
		active: active,
		points: make(map[string]*Point),
	}
}

// Init provides the service, the config is optional
func Init(inj do.Injector) {
	active := false
	if cfg, err := do.Invoke[*Config](inj); err == nil && cfg != nil {
		active = cfg.Active
	}
	do.ProvideValue(inj, New(active))
}

// Start starts a new monitor on the named point
func (s *Service) Start(name string) *Monitor {
	m := s.Point(name).monitor()
	m.start()
	return m
}

func (s *Service) Point(name string) *Point {
	s.plock.Lock()
	defer s.plock.Unlock()
	p, ok := s.points[name]
	if !ok {
		p = &Point{name: name, active: s.active}
		s.points[name] = p
	}
	return p
}

// Datas returns the data of all points sorted by name
func (s *Service) Datas() []Data {
	s.plock.Lock()
	points := make([]*Point, 0, len(s.points))
	for _, v := range s.points {
		points = append(points, v)
	}
	s.plock.Unlock()
	datas := make([]Data, 0, len(points))
	for _, p := range points {
		datas = append(datas, p.Data())
	}
	slices.SortFunc(datas, func(d1, d2 Data) int {
		return strings.Compare(d1.Name, d2.Name)
	})
	return datas
}

func (s *Service) Reset() {
	s.plock.Lock()
	defer s.plock.Unlock()
	for _, v := range s.points {
		v.Reset()
	}
}

// Point aggregates the durations of its monitors
type Point struct {
	name                     string
	active                   bool
	min, max, average, total time.Duration
	count, errors            int
	running, maxActive       int
	calcLock                 sync.Mutex
}

func (p *Point) Name() string {
	return p.name
}

func (p *Point) monitor() *Monitor {
	if !p.active {
		return &Monitor{}
	}
	return &Monitor{point: p}
}

func (p *Point) begin() {
	p.calcLock.Lock()
	defer p.calcLock.Unlock()
	p.running++
	if p.running > p.maxActive {
		p.maxActive = p.running
	}
}

func (p *Point) end(d time.Duration, failed bool) {
	p.calcLock.Lock()
	defer p.calcLock.Unlock()
	p.running--
	p.count++
	if failed {
		p.errors++
	}
	p.total += d
	p.average = p.total / time.Duration(p.count)
	if d > p.max {
		p.max = d
	}
	if d < p.min || p.min == 0 {
		p.min = d
	}
}

func (p *Point) Reset() {
	p.calcLock.Lock()
	defer p.calcLock.Unlock()
	p.min, p.max, p.average, p.total = 0, 0, 0, 0
	p.count, p.errors, p.running, p.maxActive = 0, 0, 0, 0
}

func (p *Point) Data() Data {
	p.calcLock.Lock()
	defer p.calcLock.Unlock()
	return Data{
		Name:      p.name,
		Min:       p.min.Milliseconds(),
		Max:       p.max.Milliseconds(),
		Average:   p.average.Milliseconds(),
		Total:     p.total.Milliseconds(),
		Count:     p.count,
		Errors:    p.errors,
		MaxActive: p.maxActive,
	}
}

// Monitor measures one run, a monitor of an inactive service measures nothing
type Monitor struct {
	point   *Point
	started time.Time
	accrued time.Duration
	running bool
	failed  bool
}

func (m *Monitor) start() {
	m.started = time.Now()
	m.running = true
	if m.point != nil {
		m.point.begin()
	}
}

// SetError marks the run as failed
func (m *Monitor) SetError() {
	m.failed = true
}

// Stop ends the measurement, false if the monitor was already stopped
func (m *Monitor) Stop() bool {
	if !m.running {
		return false
	}
	m.running = false
	if m.point == nil {
		return true
	}
	m.accrued = time.Since(m.started)
	m.point.end(m.accrued, m.failed)
	return true
}

// Accrued is the measured duration
func (m *Monitor) Accrued() time.Duration {
	return m.accrued
}
