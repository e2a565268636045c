package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"blink-cli/internal/client"
	"blink-cli/internal/hub"
)

// Variables to hold flag values
var (
	expEmail      string
	expPass       string
	expNetwork    int
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	api    *client.Blink
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	// 1. Initial login, retried with exponential backoff so a cloud blip at
	// boot does not kill the service.
	log.Println("Attempting initial login...")
	login := func() (string, error) {
		token, _, err := p.api.Login()
		return token, err
	}
	if _, err := backoff.Retry(context.Background(), login,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(10),
	); err != nil {
		log.Fatalf("Fatal: Initial login failed: %v", err)
	}
	log.Println("Initial login successful.")

	// 2. Bootstrap the sync module once; scrapes refresh it in place.
	sm := hub.New(p.api, fmt.Sprintf("network-%d", expNetwork), expNetwork, newLogger())
	if !sm.Start() {
		log.Fatalf("Fatal: could not bootstrap sync module for network %d", expNetwork)
	}

	// 3. Setup Prometheus
	registry := prometheus.NewRegistry()
	collector := &BlinkCollector{API: p.api, SyncModule: sm}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("Blink Exporter listening on %s", addr)

	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("HTTP Server error: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Println("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR LOGIC ---

// BlinkCollector refreshes one sync module per scrape and exposes its
// state. The mutex serializes scrapes: the sync module is single-threaded.
type BlinkCollector struct {
	API        *client.Blink
	SyncModule *hub.SyncModule
	Mutex      sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"blink_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"blink_scrape_duration_seconds", "Time taken to refresh the sync module.", nil, nil,
	)
	hubOnlineDesc = prometheus.NewDesc(
		"blink_sync_module_online", "Sync module online status.", []string{"name", "network_id"}, nil,
	)
	networkArmedDesc = prometheus.NewDesc(
		"blink_network_armed", "Whether the network is armed.", []string{"network_id"}, nil,
	)
	cameraMotionDesc = prometheus.NewDesc(
		"blink_camera_motion", "New clip recorded since the last refresh.", []string{"camera"}, nil,
	)
	cameraBatteryDesc = prometheus.NewDesc(
		"blink_camera_battery", "Camera battery level.", []string{"camera"}, nil,
	)
	cameraWifiDesc = prometheus.NewDesc(
		"blink_camera_wifi_strength", "Camera wifi signal strength.", []string{"camera"}, nil,
	)
	cameraCountDesc = prometheus.NewDesc(
		"blink_cameras_total", "Cameras attached to the sync module.", nil, nil,
	)
)

func (c *BlinkCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- hubOnlineDesc
	ch <- networkArmedDesc
	ch <- cameraMotionDesc
	ch <- cameraBatteryDesc
	ch <- cameraWifiDesc
	ch <- cameraCountDesc
}

func (c *BlinkCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	sm := c.SyncModule
	sm.Refresh(false)
	networkLabel := strconv.Itoa(sm.NetworkID)

	// 1. Hub status
	if online, err := sm.Online(); err == nil {
		val := 0.0
		if online {
			val = 1.0
		}
		ch <- prometheus.MustNewConstMetric(hubOnlineDesc, prometheus.GaugeValue, val, sm.Name, networkLabel)
	} else {
		success = 0.0
		log.Printf("Error reading hub status: %v", err)
	}

	if armed, err := sm.Armed(); err == nil {
		val := 0.0
		if armed {
			val = 1.0
		}
		ch <- prometheus.MustNewConstMetric(networkArmedDesc, prometheus.GaugeValue, val, networkLabel)
	}

	// 2. Cameras
	names := sm.Cameras.Keys()
	ch <- prometheus.MustNewConstMetric(cameraCountDesc, prometheus.GaugeValue, float64(len(names)))
	for _, name := range names {
		cam, _ := sm.Cameras.Get(name)

		motion := 0.0
		if sm.Motion[name] {
			motion = 1.0
		}
		ch <- prometheus.MustNewConstMetric(cameraMotionDesc, prometheus.GaugeValue, motion, cam.Name)
		ch <- prometheus.MustNewConstMetric(cameraBatteryDesc, prometheus.GaugeValue, float64(cam.Battery), cam.Name)
		ch <- prometheus.MustNewConstMetric(cameraWifiDesc, prometheus.GaugeValue, float64(cam.WifiStrength), cam.Name)
	}

	// Motion flags were consumed into this scrape; advance the window.
	c.API.SetLastRefresh(time.Now())

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes Blink sync module metrics.
Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Setup Client Config
		cfg := client.Config{
			Email:    expEmail,
			Password: expPass,
		}

		// 2. Define Service Configuration
		svcConfig := &service.Config{
			Name:        "blink-exporter",
			DisplayName: "Blink Prometheus Exporter",
			Description: "Exposes Blink sync module metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--email", expEmail,
				"--password", expPass,
				"--exporter-network", strconv.Itoa(expNetwork),
				"--port", expPort,
			},
		}

		prg := &program{
			api: client.New(cfg, newLogger()),
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// 3. Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if serviceAction == "install" {
				if expEmail == "" || expPass == "" || expNetwork == 0 {
					log.Fatal("Error: You must provide --email, --password and --exporter-network to install the service.")
				}
			}

			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// 4. Run the Service (Blocking)
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expEmail, "email", "", "Blink account email")
	exporterCmd.Flags().StringVar(&expPass, "password", "", "Blink account password")
	exporterCmd.Flags().IntVar(&expNetwork, "exporter-network", 0, "Network id of the sync module to export")
	exporterCmd.Flags().StringVar(&expPort, "port", "9835", "Port to listen on")

	// Service Control
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
