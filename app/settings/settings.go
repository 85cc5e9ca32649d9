// Author: DoItWithASmile (2025). Apache 2.0 License

package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DoItWithASmile/git-it-write/app/config"

	"github.com/google/uuid"
)

const (
	generalKey      = "giw: settings"
	repositoriesKey = "giw: repositories"
)

// GeneralSettings holds the service-wide settings: the shared webhook secret
// and the GitHub credentials used for tree listing and raw content fetches.
type GeneralSettings struct {
	WebhookSecret     string `json:"webhookSecret"`
	GithubUsername    string `json:"githubUsername"`
	GithubAccessToken string `json:"githubAccessToken"`
}

// RepositoryConfig maps one repository folder to one content type.
type RepositoryConfig struct {
	Id              string `json:"id"`
	Owner           string `json:"owner"`
	Repo            string `json:"repo"`
	Branch          string `json:"branch"`
	Folder          string `json:"folder"`
	PostType        string `json:"postType"`
	PostAuthor      int    `json:"postAuthor"`
	ContentTemplate string `json:"contentTemplate"`
	LastPublish     int64  `json:"lastPublish"`
}

func (c RepositoryConfig) FullName() string {
	return c.Owner + "/" + c.Repo
}

func (c RepositoryConfig) String() string {
	return fmt.Sprintf("%v/%v#%v", c.Owner, c.Repo, c.Branch)
}

func withDefaults(c RepositoryConfig) RepositoryConfig {
	if c.Branch == "" {
		c.Branch = "master"
	}
	if c.PostType == "" {
		c.PostType = "post"
	}
	if c.PostAuthor == 0 {
		c.PostAuthor = 1
	}
	if c.ContentTemplate == "" {
		c.ContentTemplate = "%%content%%"
	}
	return c
}

func General(ctx context.Context) (GeneralSettings, error) {
	res := GeneralSettings{}
	cmd := config.GetRedis().Get(ctx, generalKey)
	if cmd.Err() != nil || cmd.Val() == "" {
		return res, nil
	}
	err := json.Unmarshal([]byte(cmd.Val()), &res)
	if err != nil {
		return res, fmt.Errorf("failed to unmarshal general settings: %w", err)
	}
	return res, nil
}

func SaveGeneral(ctx context.Context, s GeneralSettings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return config.GetRedis().Set(ctx, generalKey, string(b), 0).Err()
}

// Repositories returns all configured repositories keyed by configuration id.
func Repositories(ctx context.Context) (map[string]RepositoryConfig, error) {
	res := map[string]RepositoryConfig{}
	cmd := config.GetRedis().Get(ctx, repositoriesKey)
	if cmd.Err() != nil || cmd.Val() == "" {
		return res, nil
	}
	err := json.Unmarshal([]byte(cmd.Val()), &res)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal repository configurations: %w", err)
	}
	for id, c := range res {
		c.Id = id
		res[id] = withDefaults(c)
	}
	return res, nil
}

func Repository(ctx context.Context, id string) (RepositoryConfig, bool, error) {
	all, err := Repositories(ctx)
	if err != nil {
		return RepositoryConfig{}, false, err
	}
	c, ok := all[id]
	return c, ok, nil
}

// SaveRepository stores a repository configuration, assigning an id when the
// configuration is new.
func SaveRepository(ctx context.Context, c RepositoryConfig) (RepositoryConfig, error) {
	all, err := Repositories(ctx)
	if err != nil {
		return c, err
	}
	if c.Id == "" {
		c.Id = uuid.NewString()
	}
	c = withDefaults(c)
	all[c.Id] = c
	if err := saveAll(ctx, all); err != nil {
		return c, err
	}
	return c, nil
}

func DeleteRepository(ctx context.Context, id string) error {
	all, err := Repositories(ctx)
	if err != nil {
		return err
	}
	delete(all, id)
	return saveAll(ctx, all)
}

// TouchLastPublish records the time of the last successful publish run.
func TouchLastPublish(ctx context.Context, id string, t time.Time) error {
	all, err := Repositories(ctx)
	if err != nil {
		return err
	}
	c, ok := all[id]
	if !ok {
		return fmt.Errorf("repository configuration %v not found", id)
	}
	c.LastPublish = t.Unix()
	all[id] = c
	return saveAll(ctx, all)
}

func saveAll(ctx context.Context, all map[string]RepositoryConfig) error {
	b, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return config.GetRedis().Set(ctx, repositoriesKey, string(b), 0).Err()
}
