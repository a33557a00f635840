package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"oneshift/models"
)

type seedFile struct {
	Cars []seedCar `yaml:"cars"`
}

// seedCar is the legacy seed shape: display strings only, no brand/model
// split. EditForm recovers the raw fields from these on demand.
type seedCar struct {
	ID       int64  `yaml:"id"`
	Title    string `yaml:"title"`
	Price    string `yaml:"price"`
	Location string `yaml:"location"`
	Kms      string `yaml:"kms"`
	Fuel     string `yaml:"fuel"`
	Owner    string `yaml:"owner"`
	Image    string `yaml:"image"`
}

// LoadSeed reads the bundled catalog from a YAML file.
func LoadSeed(path string) ([]models.CarListing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	records := make([]models.CarListing, 0, len(f.Cars))
	for _, car := range f.Cars {
		records = append(records, models.CarListing{
			ID:       car.ID,
			Title:    car.Title,
			Price:    car.Price,
			Location: car.Location,
			Kms:      car.Kms,
			Fuel:     car.Fuel,
			Owner:    car.Owner,
			Image:    car.Image,
		})
	}
	return records, nil
}
