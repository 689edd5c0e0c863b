// Package superflow is the top-level façade over Superflow's proxel
// dataflow graph: Service turns a declarative GraphSpec - one ProxelConfig
// per node plus the ConnectionSpecs wiring them together - into a Runtime,
// which starts and stops the resulting graph.Graph.
//
//	factories := builder.NewFactoryMap[config.Properties]()
//	factories.Register(echo.Type, echo.New)
//
//	svc := superflow.New(factories)
//	rt, err := svc.LoadGraph(ctx, "file://./graph.yaml")
//	if err != nil {
//		// handle error
//	}
//	if err := rt.Start(ctx); err != nil {
//		// handle error
//	}
//	defer rt.Shutdown(ctx)
//
// For the pieces Service assembles, see builder, config, and graph.
package superflow
