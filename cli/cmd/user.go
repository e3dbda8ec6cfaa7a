package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagedeck/pagedeck/db"
)

type userAddArgs struct {
	username string
	email    string
	password string
}

var targetUserAddArgs userAddArgs

func init() {
	userAddCmd.PersistentFlags().StringVar(&targetUserAddArgs.username, "login", "", "Username")
	userAddCmd.PersistentFlags().StringVar(&targetUserAddArgs.email, "email", "", "Email")
	userAddCmd.PersistentFlags().StringVar(&targetUserAddArgs.password, "password", "", "Password")
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new user",
	Run: func(cmd *cobra.Command, args []string) {
		if targetUserAddArgs.email == "" || targetUserAddArgs.password == "" {
			log.Fatal("Arguments --email and --password required")
		}

		store := createStore()
		defer store.Close()

		hash, err := bcrypt.GenerateFromPassword([]byte(targetUserAddArgs.password), bcrypt.DefaultCost)
		if err != nil {
			log.WithError(err).Fatal("cannot hash password")
		}

		user, err := store.CreateUser(db.User{
			Username: targetUserAddArgs.username,
			Email:    targetUserAddArgs.email,
			Password: string(hash),
		})
		if err != nil {
			log.WithError(err).Fatal("cannot create user")
		}

		log.WithFields(log.Fields{
			"id":    user.ID,
			"email": user.Email,
		}).Info("user created")
	},
}
