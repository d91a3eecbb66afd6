// Package model defines the canonical data types shared across fredmcp:
// the FRED entities the client decodes, the time-series primitives the
// analysis packages operate on, and the tool response envelope every
// MCP tool returns.
package model

import (
	"math"
	"time"
)

// ─── FRED Entity Types ────────────────────────────────────────────────────────

// Category represents a FRED data category node in the hierarchy, rooted
// at id 0.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ParentID int    `json:"parent_id"`
}

// SeriesMeta holds metadata for a single FRED data series.
type SeriesMeta struct {
	ID                      string    `json:"id"`
	Title                   string    `json:"title"`
	ObservationStart        string    `json:"observation_start"`
	ObservationEnd          string    `json:"observation_end"`
	Frequency               string    `json:"frequency"`
	FrequencyShort          string    `json:"frequency_short"`
	Units                   string    `json:"units"`
	UnitsShort              string    `json:"units_short"`
	SeasonalAdjustment      string    `json:"seasonal_adjustment"`
	SeasonalAdjustmentShort string    `json:"seasonal_adjustment_short"`
	LastUpdated             string    `json:"last_updated"`
	Popularity              int       `json:"popularity"`
	Notes                   string    `json:"notes"`
	FetchedAt               time.Time `json:"fetched_at,omitempty"`
}

// Release represents a FRED data release.
type Release struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PressRelease bool   `json:"press_release"`
	Link         string `json:"link"`
	Notes        string `json:"notes"`
}

// Source represents a FRED data source (institution).
type Source struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Link  string `json:"link"`
	Notes string `json:"notes"`
}

// TagGroup is the closed set of FRED tag group ids (spec §3).
type TagGroup string

const (
	TagGroupFreq TagGroup = "freq"
	TagGroupGen  TagGroup = "gen"
	TagGroupGeo  TagGroup = "geo"
	TagGroupGeoT TagGroup = "geot"
	TagGroupRls  TagGroup = "rls"
	TagGroupSeas TagGroup = "seas"
	TagGroupSrc  TagGroup = "src"
	TagGroupCC   TagGroup = "cc"
)

// Tag represents a FRED tag that can be applied to series.
type Tag struct {
	Name        string `json:"name"`
	GroupID     string `json:"group_id"`
	Notes       string `json:"notes"`
	Created     string `json:"created"`
	Popularity  int    `json:"popularity"`
	SeriesCount int    `json:"series_count"`
}

// ─── Time Series Types ────────────────────────────────────────────────────────

// Observation is a single data point in a time series.
// Value is NaN when the raw value is "." or empty (missing data).
// ValueRaw preserves the original string from the API response.
type Observation struct {
	Date          time.Time `json:"date"`
	Value         float64   `json:"value"`
	ValueRaw      string    `json:"value_raw"`
	RealtimeStart string    `json:"realtime_start,omitempty"`
	RealtimeEnd   string    `json:"realtime_end,omitempty"`
}

// IsMissing returns true if the observation value is NaN (missing data).
func (o Observation) IsMissing() bool {
	return math.IsNaN(o.Value)
}

// SeriesData bundles observations with optional metadata for a single series.
type SeriesData struct {
	SeriesID string        `json:"series_id"`
	Meta     *SeriesMeta   `json:"meta,omitempty"`
	Obs      []Observation `json:"observations"`
}

// SearchResult holds mixed-type results from a global search query.
type SearchResult struct {
	Query  string       `json:"query"`
	Type   string       `json:"type"`
	Series []SeriesMeta `json:"series,omitempty"`
}

// ─── Cache / Limiter snapshots (spec §3) ──────────────────────────────────────

// CacheEntry is the logical shape of one cache record; backends store it
// however suits their medium, but Get/Set reason about exactly these fields.
type CacheEntry struct {
	Namespace  string    `json:"namespace"`
	Key        string    `json:"key"`
	InsertedAt time.Time `json:"inserted_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
	HitCount   int64     `json:"hit_count"`
}

// CacheNamespaceStats is one entry of a cache telemetry snapshot.
type CacheNamespaceStats struct {
	TTLSeconds int64 `json:"ttl_seconds"`
	Entries    int   `json:"entries"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
}

// CacheSnapshot is the full telemetry snapshot of the cache subsystem.
type CacheSnapshot struct {
	Backend    string                         `json:"backend"`
	Connected  bool                           `json:"connected"`
	Namespaces map[string]CacheNamespaceStats `json:"namespaces"`
}

// LimiterSnapshot is the introspection view of the rate limiter.
type LimiterSnapshot struct {
	WindowSeconds   int        `json:"window_seconds"`
	MaxRequests     int        `json:"max_requests"`
	InUse           int        `json:"in_use"`
	ActivePenaltyMs int64      `json:"active_penalty_ms"`
	Last429At       *time.Time `json:"last_429_at,omitempty"`
}

// ─── Tool response envelope (spec §3, §6) ─────────────────────────────────────

// ToolResponse is the invariant top-level JSON shape every MCP tool returns.
// Exactly one of Data / Error is ever non-empty.
type ToolResponse struct {
	Tool     string       `json:"tool"`
	Data     interface{}  `json:"data,omitempty"`
	Metadata ResponseMeta `json:"metadata"`
	Error    string       `json:"error,omitempty"`
}

// ResponseMeta is the metadata object every ToolResponse carries.
type ResponseMeta struct {
	FetchDate string                 `json:"fetch_date"`
	CacheHit  bool                   `json:"cache_hit,omitempty"`
	ErrorKind string                 `json:"error_kind,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Cursor    *Cursor                `json:"cursor,omitempty"`
}

// Cursor carries pagination bookkeeping for list-like tools.
type Cursor struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total,omitempty"`
}

// ─── Region / Country static tables (spec §4.6 / §4.7) ────────────────────────

// IndexType distinguishes the inflation measure a series represents.
type IndexType string

const (
	IndexHICP IndexType = "HICP"
	IndexCPI  IndexType = "CPI"
	IndexPCE  IndexType = "PCE"
)

// RegionInflation is one row of the immutable region→series lookup table.
type RegionInflation struct {
	RegionCode           string    `json:"region_code"`
	SeriesID             string    `json:"series_id"`
	IndexType            IndexType `json:"index_type"`
	Source               string    `json:"source"`
	IncludesOwnerHousing bool      `json:"includes_owner_housing"`
	Frequency            string    `json:"frequency"`
	Notes                string    `json:"notes"`
	CentralBankTarget    *float64  `json:"central_bank_target,omitempty"`
}

// GDPVariant is the closed set of GDP series variants a country row exposes.
type GDPVariant string

const (
	GDPNominalUSD        GDPVariant = "nominal_usd"
	GDPConstant2010      GDPVariant = "constant_2010"
	GDPPerCapitaConstant GDPVariant = "per_capita_constant"
	GDPPerCapitaPPP      GDPVariant = "per_capita_ppp"
	GDPPPPAdjusted       GDPVariant = "ppp_adjusted"
	GDPPopulation        GDPVariant = "population"
	GDPGrowthRate        GDPVariant = "growth_rate" // derived, never fetched directly
)

// CountryGDP maps a country code to the FRED series id for each directly
// fetchable variant. Derived variants (growth_rate, and per_capita_* when
// no direct series exists) are computed by internal/workflow, not looked
// up here.
type CountryGDP struct {
	CountryCode string
	Series      map[GDPVariant]string
}
