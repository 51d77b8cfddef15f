package main

import (
	"context"
	"fmt"
	"os"

	"habitflow/internal/model"
	"habitflow/internal/service"

	"github.com/goccy/go-json"
)

type seedMission struct {
	Name          string   `json:"name"`
	Steps         []string `json:"steps"`
	Link          string   `json:"link"`
	IsPartnership bool     `json:"is_partnership"`
}

// seedCatalog loads operator-provided special missions from a JSON file,
// skipping names that already exist so restarts do not duplicate the catalog.
func seedCatalog(ctx context.Context, svc *service.SpecialMissionService, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []seedMission
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	existing, err := svc.ListMissions(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		known[m.Name] = struct{}{}
	}

	for _, seed := range seeds {
		if _, ok := known[seed.Name]; ok {
			continue
		}

		err := svc.CreateMission(ctx, &model.SpecialMission{
			Name:          seed.Name,
			Steps:         seed.Steps,
			Link:          seed.Link,
			IsPartnership: seed.IsPartnership,
		})
		if err != nil {
			return fmt.Errorf("failed to seed mission %q: %w", seed.Name, err)
		}
	}

	return nil
}
