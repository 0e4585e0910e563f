package sim

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Profile is a complete generation run captured in one YAML document,
// so a workload can be versioned and re-run instead of living in shell
// history. Loaded via LoadProfile(path).
type Profile struct {
	Addresses int64   `yaml:"addresses"`
	Length    int64   `yaml:"length"`
	Seed      int64   `yaml:"seed"`
	BlockSize int64   `yaml:"block_size"`
	PIRM      float64 `yaml:"p_irm"`
	// IRD is a single spec in blended mode and a semicolon-separated
	// list (one per group) when Groups > 1.
	IRD string `yaml:"ird"`
	// IRM is the popularity spec: an address-mode distribution in
	// blended mode, a popularity-mode spec in grouped mode.
	IRM      string  `yaml:"irm"`
	Groups   int     `yaml:"groups,omitempty"` // 0 or 1 selects blended mode
	RWRatio  float64 `yaml:"rw_ratio"`
	SizeDist string  `yaml:"size_dist"`
	Output   string  `yaml:"output,omitempty"`
}

// DefaultProfile returns a profile with the generator's stock knobs.
func DefaultProfile() *Profile {
	return &Profile{
		Seed:      42,
		BlockSize: 4096,
		IRD:       "b",
		IRM:       "zipf:1.2,20",
		RWRatio:   1,
		SizeDist:  "1:1",
	}
}

// LoadProfile reads and validates a YAML profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the structural constraints a run must satisfy before
// any sampling happens.
func (p *Profile) Validate() error {
	if p.Addresses <= 0 {
		return errConfig("addresses must be positive, got %d", p.Addresses)
	}
	if p.Length < 0 {
		return errConfig("length must be non-negative, got %d", p.Length)
	}
	if p.BlockSize <= 0 {
		return errConfig("block_size must be positive, got %d", p.BlockSize)
	}
	if p.PIRM < 0 || p.PIRM > 1 {
		return errConfig("p_irm must be in [0, 1], got %v", p.PIRM)
	}
	if p.RWRatio < 0 || p.RWRatio > 1 {
		return errConfig("rw_ratio must be in [0, 1], got %v", p.RWRatio)
	}
	if p.Groups < 0 {
		return errConfig("groups must be non-negative, got %d", p.Groups)
	}
	if p.Grouped() && p.PIRM != 0 {
		logrus.Warnf("p_irm=%v is ignored in grouped mode; every emission is schedule-driven", p.PIRM)
	}
	return nil
}

// Grouped reports whether the profile selects the multi-group core.
func (p *Profile) Grouped() bool {
	return p.Groups > 1
}

// === Built-in profiles for common workload shapes ===

// ProfileHotCold is a blended workload with bursty locality and a
// zipf-skewed popularity tail.
func ProfileHotCold(seed int64, addresses, length int64) *Profile {
	p := DefaultProfile()
	p.Seed = seed
	p.Addresses = addresses
	p.Length = length
	p.PIRM = 0.2
	p.IRD = "b"
	p.IRM = "zipf:1.2,20"
	return p
}

// ProfileGroupedTiers is a two-tier grouped workload: a small hot
// group referenced often and a large cold tail.
func ProfileGroupedTiers(seed int64, addresses, length int64) *Profile {
	p := DefaultProfile()
	p.Seed = seed
	p.Addresses = addresses
	p.Length = length
	p.Groups = 2
	p.IRD = "d;b"
	p.IRM = "8,2"
	return p
}
