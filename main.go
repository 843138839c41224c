package main

import (
	"github.com/txix-open/isp-kit/app"
	"github.com/txix-open/isp-kit/shutdown"
	"mc-gate-service/assembly"
	"mc-gate-service/conf"
)

func main() {
	application, err := app.New(app.WithConfigOptions(conf.Options(conf.NewDotEnv(conf.DotEnvFile))...))
	if err != nil {
		panic(err)
	}
	logger := application.Logger()

	config, err := conf.Read(application.Config())
	if err != nil {
		logger.Fatal(application.Context(), err)
	}
	logger.SetLevel(config.Logging.Level())

	assembly, err := assembly.New(*config, logger)
	if err != nil {
		logger.Fatal(application.Context(), err)
	}
	application.AddRunners(assembly.Runners()...)
	application.AddClosers(assembly.Closers()...)

	shutdownCompleted := make(chan struct{})
	shutdown.On(func() {
		logger.Info(application.Context(), "starting shutdown")
		application.Shutdown()
		logger.Info(application.Context(), "shutdown completed")
		close(shutdownCompleted)
	})

	err = application.Run()
	if err != nil {
		application.Shutdown()
		logger.Fatal(application.Context(), err)
	}
	<-shutdownCompleted
}
