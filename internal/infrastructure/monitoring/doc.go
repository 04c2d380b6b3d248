/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the gateway,
tracking message dispatch, drops, proxy forwarding, frame lifecycle, and the
HTTP surface.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record messaging metrics
	metrics.RecordDispatch("dfp")
	metrics.RecordDrop(monitoring.DropMalformed)

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
