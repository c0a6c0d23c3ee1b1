package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/handsup/internal/config"
	"github.com/ayusman/handsup/internal/detector"
	"github.com/ayusman/handsup/internal/server"
	"github.com/ayusman/handsup/internal/session"
	"github.com/ayusman/handsup/internal/tray"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	cameraID := flag.Int("camera", -1, "camera device ID (overrides config)")
	useTray := flag.Bool("tray", false, "show system tray controls")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *cameraID >= 0 {
		cfg.CameraID = *cameraID
	}
	if *useTray {
		cfg.Tray = true
	}

	fmt.Println("Handsup - raise both hands at the camera")

	detCfg := detector.DefaultConfig()
	detCfg.PreferGPU = cfg.PreferGPU

	sess := session.New(session.Config{
		CameraID:     cfg.CameraID,
		FrameWidth:   cfg.FrameWidth,
		FrameHeight:  cfg.FrameHeight,
		IdleFPS:      cfg.IdleFPS,
		ActiveFPS:    cfg.ActiveFPS,
		MotionThresh: cfg.MotionThresh,
		NoseOffset:   cfg.NoseOffset,
		ResetOnLost:  cfg.ResetOnLost,
		Detector:     detCfg,
	})
	defer sess.Stop()

	// Initialization runs in the background so the page can show the
	// spinner, then the error panel if acquisition fails. Failure is
	// terminal for the session but not for the server.
	go func() {
		if err := sess.Start(); err != nil {
			log.Printf("Session failed to start: %v", err)
		}
	}()

	webDir := findWebDir(cfg.StaticDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Session:   sess,
	})

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv}
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if cfg.Tray {
		runTray(sess, cfg.Addr)
	} else {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
	}

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	httpSrv.Shutdown(ctx)
	sess.Stop()
}

// runTray blocks on the system tray loop, mirroring the session state into
// the status line. Quit (menu or signal) unblocks it.
func runTray(sess *session.Session, addr string) {
	t := tray.New()
	t.OnToggle(sess.SetEnabled)
	t.OnOpen(func() { openBrowser(pageURL(addr)) })

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-sigCh:
				t.Quit()
			case <-ticker.C:
				t.SetMatched(sess.State().Matched)
			}
		}
	}()

	t.Run()
	close(done)
}

func pageURL(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Open browser: %v", err)
	}
}

// findWebDir searches for the web directory, preferring the configured path.
// It checks the configured dir, "web", "../web", and ~/.handsup/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(configured string) string {
	candidates := []string{}
	if configured != "" {
		candidates = append(candidates, configured)
	}
	candidates = append(candidates, "web", "../web")

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".handsup", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
