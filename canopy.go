package canopy

import (
	"fmt"
	"math/rand"
	"runtime"
	"strings"
)

const (
	// DefaultT2Setting asks for the T2 heuristic.
	DefaultT2Setting = -1.0

	// DefaultT1Setting makes T1 1.25 times T2.
	DefaultT1Setting = -1.25

	// warmupDraws is the number of values discarded from a freshly seeded
	// generator before it is used.
	warmupDraws = 10
)

// Config controls canopy clustering behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// T2 is the inner radius: a record closer than T2 to a canopy is absorbed
	// into that canopy's statistics. Negative values derive T2 from attribute
	// standard deviations (batch only; streaming falls back to DefaultT2).
	// Must not be 0. Default: -1 (heuristic).
	T2 float64

	// T1 is the outer radius used for reporting membership. Positive values
	// are absolute; negative values are a multiplier of T2, so -1.25 means
	// T1 = 1.25*T2. Must not be 0 and must resolve to >= T2.
	// Default: -1.25.
	T1 float64

	// NumClusters is the number of canopies to return. Negative values let
	// T2 decide. Extra canopies are pruned by density; missing ones are
	// padded with random training records when batch training.
	// Default: -1.
	NumClusters int

	// DontReplaceMissing disables mean/mode imputation of missing values
	// when batch training. Ignored when Resolver is set. Default: false.
	DontReplaceMissing bool

	// Seed drives record shuffling and padding. Default: 1.
	Seed int64

	// Metric folds per-attribute differences into a distance for the default
	// NormalizedDistance provider. Ignored when Distance is set.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Distance overrides the distance provider. When nil a
	// NormalizedDistance over Metric is used.
	Distance DistanceProvider

	// Resolver overrides missing-value handling for every record the
	// clusterer sees, in batch and streaming mode.
	Resolver MissingValueResolver

	// Logger receives diagnostics. Default: warnings to stderr.
	Logger *Logger

	// Workers controls the number of goroutines used for membership passes
	// in Finalize and AssignAll. 0 means use runtime.NumCPU().
	Workers int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		T2:          DefaultT2Setting,
		T1:          DefaultT1Setting,
		NumClusters: -1,
		Seed:        1,
		Metric:      EuclideanMetric{},
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.T2 == 0 {
		return fmt.Errorf("canopy: T2 must be > 0, or < 0 for the heuristic, got %v", cfg.T2)
	}
	if cfg.T1 == 0 {
		return fmt.Errorf("canopy: T1 must be > 0, or < 0 for a multiplier of T2, got %v", cfg.T1)
	}
	if cfg.T2 > 0 {
		if t1 := resolveT1(cfg.T1, cfg.T2); t1 < cfg.T2 {
			return &ThresholdError{T1: t1, T2: cfg.T2}
		}
	}
	if cfg.NumClusters == 0 {
		return fmt.Errorf("canopy: NumClusters must be > 0, or < 0 to let T2 decide, got 0")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("canopy: Workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Logger == nil {
		cfg.Logger = NewLogger(nil)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// Canopy is a finalized cluster center.
type Canopy struct {
	// Center is the centroid: numeric means and categorical modes of the
	// absorbed records, or the training record for padded canopies.
	Center Record

	// Density is the number of records absorbed into the canopy, including
	// the one that founded it.
	Density float64

	// Membership lists the canopies whose center lies within T1 of Center,
	// relative to the final canopy set.
	Membership Membership
}

// Result contains the output of canopy clustering.
type Result struct {
	Schema   *Schema
	Canopies []Canopy

	// T1 and T2 are the radii actually used.
	T1 float64
	T2 float64
}

// Centers returns the canopy centers in result order.
func (r *Result) Centers() []Record {
	out := make([]Record, len(r.Canopies))
	for i, c := range r.Canopies {
		out[i] = c.Center
	}
	return out
}

// String renders the result with a header, the radii, and one line per
// canopy: "Cluster <i>: <values> <members>".
func (r *Result) String() string {
	centers := r.Centers()
	memberships := make([]Membership, len(r.Canopies))
	for i, c := range r.Canopies {
		memberships[i] = c.Membership
	}
	return render(r.Schema, centers, memberships, r.T1, r.T2)
}

func render(schema *Schema, centers []Record, memberships []Membership, t1, t2 float64) string {
	var sb strings.Builder
	sb.WriteString("\nCanopy clustering\n=================\n")
	fmt.Fprintf(&sb, "\nNumber of canopies (cluster centers) found: %d", len(centers))
	fmt.Fprintf(&sb, "\nT2 radius: %-10.3f", t2)
	fmt.Fprintf(&sb, "\nT1 radius: %-10.3f", t1)
	sb.WriteString("\n\n")
	for i, c := range centers {
		fmt.Fprintf(&sb, "Cluster %d: %s", i, schema.Format(c))
		if len(memberships) == len(centers) {
			sb.WriteByte(' ')
			sb.WriteString(memberships[i].String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Clusterer runs canopy clustering over records of one schema, either as a
// batch (Fit) or incrementally (Update followed by Finalize).
//
// A Clusterer is not safe for concurrent mutation. Queries (AssignMembership,
// SoftAssignment, AssignAll, Cover) may run concurrently with each other but
// not with Update, Fit or Finalize.
type Clusterer struct {
	cfg      Config
	schema   *Schema
	dist     DistanceProvider
	resolver MissingValueResolver
	logger   *Logger

	t1, t2   float64
	resolved bool

	building  []*accumulator
	training  []Record
	result    *Result
	finalized bool
}

// New returns a Clusterer for records of schema. Thresholds are resolved by
// Fit, or by the first Update when training incrementally.
func New(schema *Schema, cfg Config) (*Clusterer, error) {
	if schema == nil {
		return nil, fmt.Errorf("canopy: schema must not be nil")
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	dist := cfg.Distance
	if dist == nil {
		dist = NewNormalizedDistance(schema, cfg.Metric)
	}

	return &Clusterer{
		cfg:      cfg,
		schema:   schema,
		dist:     dist,
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
	}, nil
}

// Cluster is a convenience wrapper around New and Fit.
func Cluster(schema *Schema, records []Record, cfg Config) (*Result, error) {
	c, err := New(schema, cfg)
	if err != nil {
		return nil, err
	}
	return c.Fit(records)
}

// Schema returns the schema the clusterer was built for.
func (c *Clusterer) Schema() *Schema { return c.schema }

// T1 returns the resolved outer radius, or 0 before thresholds are resolved.
func (c *Clusterer) T1() float64 { return c.t1 }

// T2 returns the resolved inner radius, or 0 before thresholds are resolved.
func (c *Clusterer) T2() float64 { return c.t2 }

// NumCanopies returns the current number of canopies.
func (c *Clusterer) NumCanopies() int {
	if c.finalized {
		return len(c.result.Canopies)
	}
	return len(c.building)
}

// Canopies returns the finalized canopies, or nil before Finalize.
func (c *Clusterer) Canopies() []Canopy {
	if !c.finalized {
		return nil
	}
	return c.result.Canopies
}

// Fit clusters records as a batch: missing values are imputed (unless
// disabled), the records are shuffled with the configured seed, T2 is derived
// when requested, every record is fed through Update and the result is
// finalized. Fit replaces any previous state, but a configuration error leaves
// the clusterer untouched.
func (c *Clusterer) Fit(records []Record) (*Result, error) {
	for i, r := range records {
		if err := c.schema.Validate(r); err != nil {
			return nil, fmt.Errorf("canopy: record %d: %w", i, err)
		}
	}

	resolver := c.cfg.Resolver
	if resolver == nil && !c.cfg.DontReplaceMissing && len(records) > 0 {
		resolver = NewMeanModeImputer(c.schema, records)
	}

	data := make([]Record, len(records))
	for i, r := range records {
		if resolver != nil {
			data[i] = resolver.Resolve(r)
		} else {
			data[i] = r.Clone()
		}
	}
	if len(data) > 0 {
		shuffle(newRand(c.cfg.Seed), data)
	}

	t1, t2, err := resolveThresholds(c.cfg, c.schema, data, c.logger)
	if err != nil {
		return nil, err
	}

	c.t1, c.t2, c.resolved = t1, t2, true
	c.resolver = resolver
	c.building = nil
	c.result = nil
	c.finalized = false
	c.training = nil
	if len(data) > 0 {
		c.training = data
	}

	if r, ok := c.dist.(interface{ Reset() }); ok {
		r.Reset()
	}
	for _, r := range data {
		c.dist.Observe(r)
	}

	for _, r := range data {
		c.update(r)
	}

	result := c.Finalize()
	c.logger.LogFit(len(data), len(result.Canopies), t1, t2)
	return result, nil
}

// Update absorbs one record. The record is resolved for missing values when
// a resolver is configured, the distance provider observes it, and it joins
// the first canopy (in creation order) closer than T2, or founds a new one.
func (c *Clusterer) Update(r Record) error {
	if c.finalized {
		return ErrFinalized
	}
	if err := c.schema.Validate(r); err != nil {
		return err
	}
	if !c.resolved {
		t1, t2, err := resolveThresholds(c.cfg, c.schema, nil, c.logger)
		if err != nil {
			return err
		}
		c.t1, c.t2, c.resolved = t1, t2, true
	}
	c.update(c.resolve(r))
	return nil
}

func (c *Clusterer) update(r Record) {
	c.dist.Observe(r)
	for _, acc := range c.building {
		if c.dist.Distance(r, acc.founder) < c.t2 {
			acc.absorb(c.schema, r)
			return
		}
	}
	c.building = append(c.building, newAccumulator(c.schema, r))
}

// resolve returns a private copy of r with missing values filled in when a
// resolver is configured.
func (c *Clusterer) resolve(r Record) Record {
	if c.resolver != nil {
		return c.resolver.Resolve(r)
	}
	return r.Clone()
}

// String renders the current canopies. Before Finalize the founding records
// are listed without memberships.
func (c *Clusterer) String() string {
	if c.finalized {
		return c.result.String()
	}
	if len(c.building) == 0 {
		return "No clusterer built yet"
	}
	centers := make([]Record, len(c.building))
	for i, acc := range c.building {
		centers[i] = acc.founder
	}
	return render(c.schema, centers, nil, c.t1, c.t2)
}

// newRand returns a generator seeded with seed that has already discarded
// warmupDraws values.
func newRand(seed int64) *rand.Rand {
	rng := rand.New(rand.NewSource(seed))
	for range warmupDraws {
		rng.Int()
	}
	return rng
}

// shuffle permutes records in place, walking from the end and swapping each
// position with a uniformly drawn earlier-or-equal one.
func shuffle(rng *rand.Rand, records []Record) {
	for j := len(records) - 1; j > 0; j-- {
		k := rng.Intn(j + 1)
		records[j], records[k] = records[k], records[j]
	}
}
