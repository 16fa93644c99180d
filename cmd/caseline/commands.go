package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/caseline-backend/internal/services"
)

var migrateOnServe bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if migrateOnServe {
			if err := a.Migrate(); err != nil {
				return err
			}
		}
		return a.Run(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Migrate(); err != nil {
			return err
		}
		a.Log.Info("schema up to date")
		return nil
	},
}

var adjustPathwayID string

var adjustStepsCmd = &cobra.Command{
	Use:   "adjust-steps",
	Short: "Renumber a pathway's steps and reconcile its open alerts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pathwayID, err := uuid.Parse(adjustPathwayID)
		if err != nil {
			return fmt.Errorf("--pathway: %w", err)
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		res, err := a.AdjustPathway(cmd.Context(), pathwayID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "steps=%d moved=%d alerts_changed=%d\n", res.Steps, res.StepsMoved, res.AlertsChanged)
		return nil
	},
}

var newUser services.RegisterInput

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user, enroll it in programs and grant roles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		u, err := a.Services.Auth.Register(cmd.Context(), newUser)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u.ID)
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnServe, "migrate", false, "run migrations before serving")

	adjustStepsCmd.Flags().StringVar(&adjustPathwayID, "pathway", "", "pathway id")
	_ = adjustStepsCmd.MarkFlagRequired("pathway")

	f := createUserCmd.Flags()
	f.StringVar(&newUser.Email, "email", "", "login email")
	f.StringVar(&newUser.Password, "password", "", "initial password (min 8 chars)")
	f.StringVar(&newUser.FirstName, "first-name", "", "")
	f.StringVar(&newUser.LastName, "last-name", "", "")
	f.StringSliceVar(&newUser.Programs, "program", nil, "program slug to enroll in (repeatable)")
	f.StringSliceVar(&newUser.Roles, "role", nil, "role name to grant, e.g. admin-acme (repeatable)")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
