// Package bootstrap seeds a fresh database with the admin account and the
// default task statuses and labels.
package bootstrap

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
	"taskmanager/internal/logger"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultSeed []byte

type Admin struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

type Status struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

type Seed struct {
	Admin    Admin    `yaml:"admin"`
	Statuses []Status `yaml:"task_statuses"`
	Labels   []string `yaml:"labels"`
}

// Result counts the rows actually inserted.
type Result struct {
	Users    int
	Statuses int
	Labels   int
}

// LoadSeed reads path, or the embedded defaults when path is empty.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// Run loads the seed named by cfg and applies it. Configured admin
// credentials take precedence over the seed file.
func Run(ctx context.Context, st store.Store, hasher auth.PasswordHasher, cfg config.BootstrapConfig) (Result, error) {
	seed, err := LoadSeed(cfg.SeedFile)
	if err != nil {
		return Result{}, err
	}
	if cfg.AdminEmail != "" {
		seed.Admin.Email = cfg.AdminEmail
	}
	if cfg.AdminPassword != "" {
		seed.Admin.Password = cfg.AdminPassword
	}
	return Apply(ctx, st, hasher, seed)
}

// Apply inserts every seed entry whose unique key is still free. Running it
// twice inserts nothing the second time.
func Apply(ctx context.Context, st store.Store, hasher auth.PasswordHasher, seed *Seed) (Result, error) {
	var res Result

	var adminHash string
	if seed.Admin.Email != "" {
		hash, err := hasher.Hash(seed.Admin.Password)
		if err != nil {
			return res, fmt.Errorf("hash admin password: %w", err)
		}
		adminHash = hash
	}

	err := st.WithinTx(ctx, func(tx store.Repositories) error {
		res = Result{}

		if seed.Admin.Email != "" {
			taken, err := tx.Users().ExistsByEmail(ctx, seed.Admin.Email)
			if err != nil {
				return err
			}
			if !taken {
				u := models.User{
					Email:        seed.Admin.Email,
					FirstName:    seed.Admin.FirstName,
					LastName:     seed.Admin.LastName,
					PasswordHash: adminHash,
				}
				if err := tx.Users().Save(ctx, &u); err != nil {
					return fmt.Errorf("seed admin: %w", err)
				}
				res.Users++
			}
		}

		for _, s := range seed.Statuses {
			taken, err := tx.TaskStatuses().ExistsBySlug(ctx, s.Slug)
			if err != nil {
				return err
			}
			if !taken {
				taken, err = tx.TaskStatuses().ExistsByName(ctx, s.Name)
				if err != nil {
					return err
				}
			}
			if taken {
				continue
			}
			status := models.TaskStatus{Slug: s.Slug, Name: s.Name}
			if err := tx.TaskStatuses().Save(ctx, &status); err != nil {
				return fmt.Errorf("seed status %s: %w", s.Slug, err)
			}
			res.Statuses++
		}

		for _, name := range seed.Labels {
			taken, err := tx.Labels().ExistsByName(ctx, name)
			if err != nil {
				return err
			}
			if taken {
				continue
			}
			label := models.Label{Name: name}
			if err := tx.Labels().Save(ctx, &label); err != nil {
				return fmt.Errorf("seed label %s: %w", name, err)
			}
			res.Labels++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.FromContext(ctx).Info("bootstrap seed applied",
		"users", res.Users, "task_statuses", res.Statuses, "labels", res.Labels)
	return res, nil
}
