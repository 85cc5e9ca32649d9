// Author: DoItWithASmile (2025). Apache 2.0 License

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DoItWithASmile/git-it-write/app/logging"

	"github.com/redis/go-redis/v9"
)

// Configuration types
type Config struct {
	ContentStoreServer string         `json:"contentStoreServer"` // base url of the content store (WordPress) REST API
	RedisHost          string         `json:"redisHost"`          // redis host, settings and publish locks live there
	Options            OptionalConfig `json:"options"`            // customizations
}

type OptionalConfig struct {
	Address                    string   `json:"address,omitempty"`                    // listen address, preset to :8030
	ContentStoreUser           string   `json:"contentStoreUser,omitempty"`           // username for the content store application password
	PathToContentStorePassword string   `json:"pathToContentStorePassword,omitempty"` // path to the file containing the content store application password
	PathToRedisPassword        string   `json:"pathToRedisPassword,omitempty"`        // by default no password for redis is set, store here the path to the file containing the redis password otherwise
	RedisDB                    int      `json:"redisDB,omitempty"`                    // by default DB 0 is used, if you need to use other DB, specify it here
	GithubApiUrl               string   `json:"githubApiUrl,omitempty"`               // override for the GitHub API base url (e.g., GitHub Enterprise)
	AllowedFileTypes           []string `json:"allowedFileTypes,omitempty"`           // file extensions that get published, preset to md
	PublishWorkers             int      `json:"publishWorkers,omitempty"`             // number of concurrent file reconciliations per run, preset to 4
}

var config Config

// static vars
var rdb RedisClient    // redis client singleton
var redisPassword = "" // will be read from pathToRedisPassword
var ContentStorePassword = ""

var LockMaxDuration = 1 * time.Hour

func init() {
	// read configuration
	configFile := os.Getenv("GIW_BACKEND_CONFIG_FILE")
	b, err := os.ReadFile(configFile)
	if err == nil {
		logging.Logger.Printf("using backend configuration from %v\n", configFile)
		err := json.Unmarshal(b, &config)
		if err != nil {
			panic(fmt.Errorf("config could not be loaded from %v: %v", configFile, err))
		}
	}
	if config.Options.Address == "" {
		config.Options.Address = ":8030"
	}
	if len(config.Options.AllowedFileTypes) == 0 {
		config.Options.AllowedFileTypes = []string{"md"}
	}
	if config.Options.PublishWorkers < 1 {
		config.Options.PublishWorkers = 4
	}

	if config.Options.PathToRedisPassword != "" {
		b, err = os.ReadFile(config.Options.PathToRedisPassword)
		if err != nil {
			logging.Logger.Println("redis password could not be read from file " + config.Options.PathToRedisPassword + ": default empty password will be used: " + err.Error())
		} else {
			redisPassword = strings.TrimSpace(string(b))
		}
	}

	if config.Options.PathToContentStorePassword != "" {
		b, err = os.ReadFile(config.Options.PathToContentStorePassword)
		if err != nil {
			logging.Logger.Println("content store password could not be read from file " + config.Options.PathToContentStorePassword + ": " + err.Error())
		} else {
			ContentStorePassword = strings.TrimSpace(string(b))
		}
	}

	rdb = redis.NewClient(&redis.Options{
		Addr:     config.RedisHost,
		Password: redisPassword,
		DB:       config.Options.RedisDB,
	})
}

type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func GetRedis() RedisClient {
	return rdb
}

func SetRedis(r RedisClient) {
	rdb = r
}

func RedisReady(ctx context.Context) bool {
	res, err := GetRedis().Ping(ctx).Result()
	if err != nil {
		logging.Logger.Printf("redis error: %v", err)
		return false
	}
	return res == "PONG"
}

func ContentStoreServer() string {
	return config.ContentStoreServer
}

func ContentStoreUser() string {
	return config.Options.ContentStoreUser
}

func GithubApiUrl() string {
	return config.Options.GithubApiUrl
}

func Address() string {
	return config.Options.Address
}

func AllowedFileTypes() []string {
	return config.Options.AllowedFileTypes
}

func PublishWorkers() int {
	return config.Options.PublishWorkers
}
