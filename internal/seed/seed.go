// Package seed loads the static client roster and project data compiled
// into the binary.
package seed

import (
	"embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"clientportal/internal/model"
)

//go:embed data/*.yaml
var files embed.FS

type Data struct {
	Accounts  []model.ClientAccount
	Progress  []*model.ProjectProgress
	Proposals []*model.ProjectProposal
}

type clientsFile struct {
	Clients []model.ClientAccount `yaml:"clients"`
}

type progressFile struct {
	Progress []*model.ProjectProgress `yaml:"progress"`
}

type proposalsFile struct {
	Proposals []*model.ProjectProposal `yaml:"proposals"`
}

// Load decodes every embedded data file and checks the roster.
func Load(logger *zap.Logger) (*Data, error) {
	var clients clientsFile
	if err := decode("data/clients.yaml", &clients); err != nil {
		return nil, err
	}
	var progress progressFile
	if err := decode("data/progress.yaml", &progress); err != nil {
		return nil, err
	}
	var proposals proposalsFile
	if err := decode("data/projects.yaml", &proposals); err != nil {
		return nil, err
	}

	data := &Data{
		Accounts:  clients.Clients,
		Progress:  progress.Progress,
		Proposals: proposals.Proposals,
	}
	if err := Validate(data, logger); err != nil {
		return nil, err
	}

	logger.Info("Seed data loaded",
		zap.Int("accounts", len(data.Accounts)),
		zap.Int("progress_records", len(data.Progress)),
		zap.Int("proposals", len(data.Proposals)),
	)
	return data, nil
}

// Validate rejects a roster that cannot be served. Duplicate deliverable
// names are only logged: mutations address deliverables by name, so the
// first match wins.
func Validate(data *Data, logger *zap.Logger) error {
	usernames := make(map[string]bool, len(data.Accounts))
	ids := make(map[string]bool, len(data.Accounts))
	for _, a := range data.Accounts {
		if a.ID == "" || a.Username == "" || a.PasswordHash == "" {
			return fmt.Errorf("roster entry %q is incomplete", a.Username)
		}
		if usernames[a.Username] {
			return fmt.Errorf("duplicate username %q", a.Username)
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate client id %q", a.ID)
		}
		if a.Tier != model.TierProposal && a.Tier != model.TierProgress {
			return fmt.Errorf("client %s has unknown tier %q", a.ID, a.Tier)
		}
		usernames[a.Username] = true
		ids[a.ID] = true
	}

	seenProgress := make(map[string]bool, len(data.Progress))
	for _, p := range data.Progress {
		if seenProgress[p.ClientID] {
			return fmt.Errorf("duplicate progress record for %s", p.ClientID)
		}
		seenProgress[p.ClientID] = true

		names := make(map[string]bool, len(p.Deliverables))
		for _, d := range p.Deliverables {
			if names[d.Name] {
				logger.Warn("Duplicate deliverable name",
					zap.String("client_id", p.ClientID),
					zap.String("deliverable", d.Name),
				)
			}
			names[d.Name] = true
		}
	}

	return nil
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
