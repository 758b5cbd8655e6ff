//go:build integration_test || all_tests

package test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"

	"github.com/2beens/localblog/internal"
	"github.com/2beens/localblog/internal/config"
)

const (
	serverPort    = 9000
	serverHost    = "127.0.0.1"
	testNamespace = "localblog-it"
	testDBName    = "localblog"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// IntegrationTestSuite runs the whole service against postgres and redis
// containers started with dockertest.
type IntegrationTestSuite struct {
	suite.Suite

	// plain database/sql handle, used to look at what the service persisted
	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	httpClient *http.Client
	teardown   []func()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	fmt.Println("setting up test suite...")

	s.teardown = make([]func(), 0)
	s.httpClient = &http.Client{Timeout: 10 * time.Second}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}
	fmt.Println("dockertest pool ping successful")

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}
	fmt.Println("redis setup successful")

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}
	fmt.Println("postgres setup successful")

	cfg := getTestConfig(redisPort, pgPort)
	s.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			PostgresPassword:        "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		s.cleanup()
		log.Fatalf("new server: %s", err)
	}
	fmt.Println("server created")

	s.server.Serve(cfg.Host, cfg.Port)

	if err := s.dockerPool.Retry(func() error {
		resp, err := s.httpClient.Get(serverEndpoint + "/")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}); err != nil {
		s.cleanup()
		log.Fatalf("server not reachable: %s", err)
	}
	fmt.Println("server started")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	fmt.Println(" --> cleaning up test suite...")
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			fmt.Printf(" --> test suite db close error: %s\n", err)
		}
	}
	for _, teardown := range s.teardown {
		teardown()
	}
	fmt.Println(" --> test suite cleanup done")
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Host:                       serverHost,
		Port:                       serverPort,
		Environment:                "test",
		LogLevel:                   "debug",
		PrometheusMetricsHost:      serverHost,
		PrometheusMetricsPort:      "9091",
		Backend:                    config.BackendPostgres,
		Namespace:                  testNamespace,
		CacheEnabled:               true,
		CacheSizeBytes:             1024 * 1024,
		CacheTTLSeconds:            5,
		CascadeDeletes:             true,
		RedisHost:                  "localhost",
		RedisPort:                  redisPort,
		PostgresHost:               "localhost",
		PostgresPort:               postgresPort,
		PostgresDBName:             testDBName,
		PostgresUser:               "postgres",
		AuthRateLimitAllowedPerMin: 1000,
	}
}

func (s *IntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "localblog-redis-it",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *IntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + testDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, testDBName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}
	s.DB = db

	if err := s.dockerPool.Retry(db.Ping); err != nil {
		return "", fmt.Errorf("ping db: %s", err)
	}

	return pgPort, nil
}
