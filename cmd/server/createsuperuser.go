package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-assignment-api/internal/database"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"github.com/yukikurage/task-assignment-api/internal/services"
)

var superuserInput services.CreateUserInput

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := bootstrap()

		db, err := database.Connect(cfg, log)
		if err != nil {
			return err
		}
		if err := database.Migrate(db, log); err != nil {
			return err
		}

		if superuserInput.Password == "" {
			return errors.New("--password is required")
		}

		users := services.NewUserService(repository.NewUserRepository(db), cfg.AllowAdminSignup)
		user, err := users.CreateSuperuser(superuserInput)
		if err != nil {
			return err
		}

		log.WithField("user_id", user.ID).WithField("email", user.Email).Info("superuser created")
		return nil
	},
}

func init() {
	flags := createSuperuserCmd.Flags()
	flags.StringVar(&superuserInput.Name, "name", "", "display name")
	flags.StringVar(&superuserInput.Email, "email", "", "login email")
	flags.StringVar(&superuserInput.Phone, "phone", "", "phone number")
	flags.StringVar(&superuserInput.Password, "password", "", "login password")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createSuperuserCmd)
}
