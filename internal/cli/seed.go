package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/streaklog/internal/service"
	"github.com/streaklog/internal/streak"
)

type seedOptions struct {
	Username string
	Password string
	Weeks    int
	Skip     int
}

type seedResult struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	Sessions      int    `json:"sessions"`
	Skipped       int    `json:"skipped"`
	Logs          int    `json:"logs"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// demoPlan uses Portuguese weekday labels on purpose, the way legacy clients
// stored them.
var demoPlan = []struct {
	weekday     string
	muscleGroup string
	exercises   []service.ExerciseInput
}{
	{"segunda", "Peito e tríceps", []service.ExerciseInput{
		{Title: "Supino reto", Sets: 4, Reps: 10, Weight: 60, RestSeconds: 90},
		{Title: "Tríceps corda", Sets: 3, Reps: 12, Weight: 25, RestSeconds: 60},
	}},
	{"quarta", "Costas", []service.ExerciseInput{
		{Title: "Remada curvada", Sets: 4, Reps: 10, Weight: 50, RestSeconds: 90},
		{Title: "Puxada frente", Sets: 3, Reps: 12, Weight: 45, RestSeconds: 60},
	}},
	{"sexta", "Pernas", []service.ExerciseInput{
		{Title: "Agachamento", Sets: 5, Reps: 5, Weight: 80, RestSeconds: 180},
	}},
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with a Mon/Wed/Fri plan and workout history",
		Long: `Create an approved demo user with a Monday/Wednesday/Friday plan and
replay the past weeks of workouts through the streak engine, one day at a
time. Every --skip'th session is left out to produce missed days. History
alternates between the ISO string and the timestamp document format.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Weeks <= 0 || opts.Skip < 0 {
				return fmt.Errorf("--weeks must be positive and --skip not negative")
			}
			env, err := openEnvironment(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			result, err := runSeed(cmd, env, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "seeded %s (id %d): %d sessions, %d skipped, %d logs\n",
				result.Username, result.UserID, result.Sessions, result.Skipped, result.Logs)
			fmt.Fprintf(out, "streak %d (longest %d)\n", result.CurrentStreak, result.LongestStreak)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "demo", "demo username")
	cmd.Flags().StringVar(&opts.Password, "password", "demo123", "demo password")
	cmd.Flags().IntVar(&opts.Weeks, "weeks", 4, "weeks of history to generate")
	cmd.Flags().IntVar(&opts.Skip, "skip", 0, "skip every Nth scheduled session (0 keeps all)")
	return cmd
}

func runSeed(cmd *cobra.Command, env *environment, opts seedOptions) (seedResult, error) {
	ctx := cmd.Context()
	loc := env.engine.Location()

	users := service.NewUserService(env.db)
	user, err := users.Register(ctx, opts.Username, opts.Password)
	if err != nil {
		return seedResult{}, fmt.Errorf("create demo user: %w", err)
	}
	if _, err := users.Approve(ctx, user.ID); err != nil {
		return seedResult{}, err
	}

	workouts := service.NewWorkoutService(env.db, env.engine, env.log)
	byWeekday := make(map[time.Weekday][]service.ExerciseInput, len(demoPlan))
	for _, plan := range demoPlan {
		if _, err := workouts.Create(ctx, user.ID, service.WorkoutInput{
			Weekday:     plan.weekday,
			MuscleGroup: plan.muscleGroup,
		}, plan.exercises); err != nil {
			return seedResult{}, fmt.Errorf("create demo workout: %w", err)
		}
		day, _ := streak.ParseWeekday(plan.weekday)
		byWeekday[day] = plan.exercises
	}

	// Replay with an engine whose clock walks through the history.
	var cursor time.Time
	replay := streak.NewEngine(env.store, streak.Options{
		Location: loc,
		Now:      func() time.Time { return cursor },
		Epoch:    env.epoch,
		Logger:   env.log,
	})
	completions := service.NewCompletionService(env.db, env.store, loc, func() time.Time { return cursor })

	result := seedResult{UserID: user.ID, Username: user.Username}
	now := env.engine.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	for day := today.AddDate(0, 0, -7*opts.Weeks); day.Before(today); day = day.AddDate(0, 0, 1) {
		exercises, scheduled := byWeekday[day.Weekday()]
		if !scheduled {
			continue
		}
		result.Sessions++
		if opts.Skip > 0 && result.Sessions%opts.Skip == 0 {
			result.Skipped++
			continue
		}

		cursor = day.Add(18*time.Hour + 30*time.Minute)
		for _, ex := range exercises {
			if _, err := completions.Record(ctx, user.ID, service.CompletionInput{
				ExerciseTitle: ex.Title,
				Sets:          ex.Sets,
				Reps:          ex.Reps,
				Weight:        ex.Weight,
				CompletedAt:   seedTimestamp(cursor, result.Sessions),
			}); err != nil {
				return seedResult{}, fmt.Errorf("record demo completion: %w", err)
			}
			result.Logs++
		}

		cursor = cursor.Add(30 * time.Minute)
		if err := replay.CheckAndResetStreakIfMissed(ctx, user.ID); err != nil {
			return seedResult{}, err
		}
		if _, err := replay.UpdateStreak(ctx, user.ID); err != nil {
			return seedResult{}, err
		}
	}

	data, err := env.engine.GetStreakData(ctx, user.ID)
	if err != nil {
		return seedResult{}, err
	}
	result.CurrentStreak = data.CurrentStreak
	result.LongestStreak = data.LongestStreak
	return result, nil
}

func seedTimestamp(at time.Time, session int) json.RawMessage {
	if session%2 == 0 {
		return json.RawMessage(fmt.Sprintf(`{"seconds":%d,"nanoseconds":0}`, at.Unix()))
	}
	return json.RawMessage(fmt.Sprintf("%q", at.Format(time.RFC3339)))
}
