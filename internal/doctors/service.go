package doctors

import (
	"fmt"
	"hash/fnv"
	"strings"

	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

const (
	// DefaultLocation is used when the caller omits a city.
	DefaultLocation = "dhaka"
	resultsPerQuery = 6
)

// DoctorDTO is one search result.
type DoctorDTO struct {
	Name            string `json:"name"`
	Specialization  string `json:"specialization"`
	Hospital        string `json:"hospital"`
	Location        string `json:"location"`
	Experience      string `json:"experience"`
	Contact         string `json:"contact"`
	ConsultationFee string `json:"consultation_fee"`
	Verified        bool   `json:"verified"`
	Rating          string `json:"rating"`
}

// Service searches the curated doctor catalog.
type Service interface {
	Search(specialization, location string) ([]DoctorDTO, error)
}

type service struct{}

// NewService constructs the doctor search service.
func NewService() Service {
	return &service{}
}

// Search returns six doctors for the specialization. Unknown specializations
// fall back to the general pool. The variable attributes are derived from a
// hash of the doctor's name so repeated queries return identical results.
func (s *service) Search(specialization, location string) ([]DoctorDTO, error) {
	specialization = strings.TrimSpace(specialization)
	if specialization == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "specialization parameter is required")
	}

	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultLocation
	}

	entry, ok := specializationCatalog[strings.ToLower(specialization)]
	if !ok {
		entry = defaultEntry
	}

	out := make([]DoctorDTO, 0, resultsPerQuery)
	for i := 0; i < resultsPerQuery; i++ {
		name := entry.names[i%len(entry.names)]
		hospital := entry.hospitals[i%len(entry.hospitals)]
		seed := hashSeed(name, specialization)

		out = append(out, DoctorDTO{
			Name:            name,
			Specialization:  specialization,
			Hospital:        hospital,
			Location:        titleCase(location),
			Experience:      fmt.Sprintf("%d years experience", 5+seed%25),
			Contact:         fmt.Sprintf("+880-1%08d", 10000000+seed%90000000),
			ConsultationFee: fmt.Sprintf("%d BDT", 500+seed%1500),
			Verified:        seed%10 >= 3,
			Rating:          fmt.Sprintf("%.1f", 4.0+float64(seed%10)/10),
		})
	}
	return out, nil
}

func hashSeed(name, specialization string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(name)))
	h.Write([]byte("|"))
	h.Write([]byte(strings.ToLower(specialization)))
	return h.Sum64()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
