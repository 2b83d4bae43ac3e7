// @title           Contract RAG API
// @version         1.0
// @description     Asynchronous contract upload and risk analysis over a vector index
// @termsOfService  http://swagger.io/terms/

// @contact.name    akolanti
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ContractRAG/internal/bootstrap"
	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/data/store"
	jobmodel "github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/handlers"
	"github.com/akolanti/ContractRAG/internal/job"
	"github.com/akolanti/ContractRAG/internal/server"
	"github.com/akolanti/ContractRAG/internal/worker"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	configPath        string
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	//.env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	flag.StringVar(&configPath, "config", config.DefaultSettingsPath, "settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides the settings file")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		logger_i.Init(config.IS_PROD, config.LOG_LEVEL_PROD)
		logger_i.NewLogger("main").Err("Could not load settings", err)
		os.Exit(1)
	}
	logger_i.Init(settings.Prod, settings.LogLevel())
	var logger = logger_i.NewLogger("main")

	if listenAddr != "" {
		settings.Server.ListenAddr = listenAddr
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	app, err := bootstrap.Build(serviceContext, *settings)
	if err != nil {
		logger.Err("External services failed to initialize. Shutting down.", err)
		return
	}

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetJobStore(serviceContext, settings.Redis),
	})

	handlers.InitJobHandler(service, app.Service)

	//init worker pool
	worker.InitServices(service, app.Service)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	server.CreateServer(settings.Server.ListenAddr)
	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.Serve()

	<-stopExecution
	logger.Info("Server stopped")
}
