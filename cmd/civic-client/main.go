package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/civicai/civic-client/internal/analyze"
	"github.com/civicai/civic-client/internal/api"
	"github.com/civicai/civic-client/internal/capture"
	"github.com/civicai/civic-client/internal/device"
	"github.com/civicai/civic-client/internal/geo"
	"github.com/civicai/civic-client/internal/notify"
	"github.com/civicai/civic-client/internal/profile"
	"github.com/civicai/civic-client/internal/review"
	"github.com/civicai/civic-client/internal/routes"
	"github.com/civicai/civic-client/internal/session"
	"github.com/civicai/civic-client/internal/triage"
	"github.com/civicai/civic-client/internal/workflow"
	"github.com/civicai/civic-client/pkg/config"
	"github.com/civicai/civic-client/pkg/logger"
)

func main() {
	// .env is optional; real configuration comes from the environment
	_ = godotenv.Load()

	var (
		mode       = flag.String("mode", "submit", "what to run: submit, triage or history")
		token      = flag.String("token", "", "identity-provider token to sign in with")
		department = flag.String("department", "", "department to triage (triage mode)")
		resolveID  = flag.String("resolve", "", "complaint id to resolve (triage mode)")
		yes        = flag.Bool("yes", false, "confirm destructive actions without prompting")
	)
	flag.Parse()

	cfg, err := config.LoadWithValidation("civic-client")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("civic-client", cfg.Client.Environment)
	log.Info().Str("backend", cfg.Client.BaseURL).Str("geo_policy", cfg.Geo.Policy).Msg("starting civic client")

	sess, err := session.Open(cfg.Session.Path, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer sess.Close()

	client := api.NewClient(cfg.Client, log)
	notifier := notify.NewLogNotifier(log)
	router := routes.NewRouter(sess, log)

	captureStage := capture.NewStage(device.NewFileSource(cfg.Device.FramePath), log)
	resolver := geo.NewResolver(
		device.NewStaticProvider(cfg.Device.Latitude, cfg.Device.Longitude),
		cfg.Geo, log)
	phaseLog := log.WithComponent("analyze")
	analyzeStage := analyze.NewStage(resolver, client, func(p analyze.Phase) {
		phaseLog.Info().Str("phase", string(p)).Msg("analysis phase")
	}, log)
	reviewStage := review.NewStage(client, log)

	ctrl := workflow.NewController(sess, router, captureStage, analyzeStage, reviewStage, notifier, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *token != "" {
		ident, err := client.Login(ctx, cfg.Client.AuthProvider, *token)
		if err != nil {
			log.Fatal().Err(err).Msg("login failed")
		}
		if _, err := ctrl.SignIn(ident); err != nil {
			log.Fatal().Err(err).Msg("failed to start session")
		}
	} else if ident, ok := sess.Current(); ok {
		ctrl.Navigate(routes.Home(ident))
	} else {
		log.Fatal().Msg("not signed in: pass -token to log in")
	}

	switch *mode {
	case "submit":
		err = runSubmit(ctx, ctrl, log)
	case "triage":
		err = runTriage(ctx, ctrl, client, notifier, *department, *resolveID, *yes, log)
	case "history":
		err = runHistory(ctx, ctrl, sess, client, log)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// runSubmit drives one capture → analyze → review → submit pass
func runSubmit(ctx context.Context, ctrl *workflow.Controller, log *logger.Logger) error {
	if landed := ctrl.Navigate(routes.ScreenPostComplaint); landed != routes.ScreenPostComplaint {
		return fmt.Errorf("cannot reach the submission screen, landed on %q", landed)
	}

	if err := ctrl.OpenCamera(ctx); err != nil {
		return err
	}
	if err := ctrl.CaptureImage(ctx); err != nil {
		return err
	}

	landed, err := ctrl.Analyze(ctx)
	if err != nil {
		return err
	}
	if landed != routes.ScreenReviewComplaint {
		// Rejection was already surfaced; nothing to submit.
		return nil
	}

	if state, ok := ctrl.Review().State(); ok {
		log.Info().
			Str("subject", state.Verdict.Subject).
			Str("department", state.Verdict.Department).
			Msg("drafted letter ready for review")
	}

	_, err = ctrl.SubmitComplaint(ctx)
	return err
}

// runTriage lists one department's complaints and optionally resolves one
func runTriage(ctx context.Context, ctrl *workflow.Controller, client *api.Client, notifier notify.Notifier, department, resolveID string, yes bool, log *logger.Logger) error {
	if department == "" {
		return fmt.Errorf("triage mode requires -department")
	}
	if landed := ctrl.Navigate(routes.ScreenAdminPending); landed != routes.ScreenAdminPending {
		return fmt.Errorf("access refused, landed on %q", landed)
	}

	confirm := func(prompt string) bool {
		if yes {
			return true
		}
		fmt.Printf("%s [y/N]: ", prompt)
		var answer string
		fmt.Scanln(&answer)
		return answer == "y" || answer == "Y"
	}

	view := triage.NewView(client, confirm, notifier, department, log)
	if err := view.Load(ctx); err != nil {
		return err
	}

	for _, c := range view.Pending() {
		fmt.Printf("PENDING   %s  %-16s %s\n", c.ID, c.IssueType, c.Title)
	}
	for _, c := range view.Resolved() {
		fmt.Printf("COMPLETED %s  %-16s %s\n", c.ID, c.IssueType, c.Title)
	}

	if resolveID != "" {
		return view.Resolve(ctx, resolveID)
	}
	return nil
}

// runHistory prints the signed-in citizen's complaint history
func runHistory(ctx context.Context, ctrl *workflow.Controller, sess *session.Store, client *api.Client, log *logger.Logger) error {
	if landed := ctrl.Navigate(routes.ScreenProfile); landed != routes.ScreenProfile {
		return fmt.Errorf("access refused, landed on %q", landed)
	}
	ident, ok := sess.Current()
	if !ok {
		return fmt.Errorf("not signed in")
	}

	view := profile.NewView(client, log)
	complaints, err := view.History(ctx, ident)
	if err != nil {
		return err
	}
	for _, c := range complaints {
		fmt.Printf("%-10s %s  %-16s %s\n", c.Status, c.CreatedAt, c.IssueType, c.Title)
	}
	return nil
}
