package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/cache"
	"github.com/emrgen/modelhub/internal/compress"
	"github.com/emrgen/modelhub/internal/config"
	"github.com/emrgen/modelhub/internal/jobs"
	"github.com/emrgen/modelhub/internal/queue"
	"github.com/emrgen/modelhub/internal/service"
	"github.com/emrgen/modelhub/internal/store"
	"github.com/emrgen/modelhub/internal/workflow"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcvalidator "github.com/grpc-ecosystem/go-grpc-middleware/validator"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"google.golang.org/grpc"
)

// Server represents the server
type Server struct {
	cfg *config.Config
}

// NewServer creates a new server
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Services is the wired service layer shared by the grpc server and the rest
// gateway.
type Services struct {
	Library *service.LibraryService
	Publish *service.PublishService
	Project *service.ProjectService
	Events  *queue.Broadcaster

	closers []func()
}

// Close releases the notifier and cache connections.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// NewServices wires the store, notifiers, cache and services from cfg. The
// mirrors are rebuilt once before the services are returned.
func NewServices(ctx context.Context, cfg *config.Config, docStore store.Store) (*Services, error) {
	encoder, err := compress.New(cfg.Compression)
	if err != nil {
		return nil, err
	}

	s := &Services{Events: queue.NewBroadcaster()}
	notifiers := queue.MultiNotifier{s.Events}
	var statsCache cache.StatsCache = cache.NopCache{}

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDb)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		statsCache = cache.NewRedisStatsCache(rdb, encoder, cfg.StatsCacheTTL)
		logrus.Infof("caching project stats in redis with %s compression", encoder.Name())
		notifiers = append(notifiers, queue.NewRedisNotifier(rdb, cfg.RedisChannel))
	}

	if cfg.KafkaBrokers != "" {
		kafka, err := queue.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("kafka: %w", err)
		}
		s.closers = append(s.closers, kafka.Close)
		notifiers = append(notifiers, kafka)
	}

	manager := workflow.NewManager(workflow.DefaultCatalog(), workflow.DefaultChecker(), cfg.CheckStepInterval)
	s.Library = service.NewLibraryService(docStore, notifiers, statsCache)
	s.Publish = service.NewPublishService(s.Library, manager)
	s.Project = service.NewProjectService(s.Library)

	res, err := s.Library.Resync(ctx, &v1.ResyncRequest{})
	if err != nil {
		s.Close()
		return nil, err
	}
	logrus.Infof("mirrors rebuilt: %d public, %d project", res.PublicMirrors, res.ProjectMirrors)

	return s, nil
}

// NewGrpcServer registers the services behind the validator, timing and error
// interceptors.
func NewGrpcServer(s *Services) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(
			// log the request time
			UnaryGrpcRequestTimeInterceptor(),
			// map service errors to status codes, validation errors included
			UnaryGrpcErrorInterceptor(),
			grpcvalidator.UnaryServerInterceptor(),
		)),
	)

	v1.RegisterModelServiceServer(grpcServer, s.Library)
	v1.RegisterPublishServiceServer(grpcServer, s.Publish)
	v1.RegisterProjectServiceServer(grpcServer, s.Project)

	return grpcServer
}

// Start starts the grpc and http servers
func Start(cfg *config.Config) error {
	var err error

	config.SetupLogging(cfg)

	grpcPort := ":" + cfg.GrpcPort
	httpPort := ":" + cfg.HttpPort

	rdb := config.GetDb(cfg)
	docStore := store.NewGormStore(rdb)
	err = docStore.Migrate()
	if err != nil {
		return err
	}

	services, err := NewServices(context.Background(), cfg, docStore)
	if err != nil {
		return err
	}
	defer services.Close()

	gl, err := net.Listen("tcp", grpcPort)
	if err != nil {
		return err
	}

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	grpcServer := NewGrpcServer(services)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(NewGateway(services.Library, services.Publish, services.Project, services.Events)),
	}

	executor := jobs.NewTaskExecutor(
		jobs.NewConsistencyTask(cfg.ConsistencySchedule, services.Library),
		jobs.NewAttemptReaper(cfg.ReaperSchedule, cfg.AttemptTTL, services.Publish),
	)
	if err = executor.Run(); err != nil {
		return err
	}
	defer executor.Stop()

	// make sure to wait for the servers to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	// Start the rest gateway
	go func() {
		defer wg.Done()
		logrus.Info("starting rest gateway on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest gateway: %v", err)
			}
		}
		logrus.Infof("rest gateway stopped")
	}()

	// Start the grpc server
	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting grpc server on: ", grpcPort)
		if err := grpcServer.Serve(gl); err != nil {
			logrus.Infof("grpc failed to start: %v", err)
		}
		logrus.Infof("grpc server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	grpcServer.GracefulStop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = restServer.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("error stopping rest gateway: %v", err)
	}

	wg.Wait()

	return nil
}
