package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/skillgate/skillgate/internal/logger"
	"github.com/skillgate/skillgate/internal/session"
	"github.com/skillgate/skillgate/internal/skillgate"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the platform and store the session locally",
	Run: func(cmd *cobra.Command, _ []string) {
		login(cmd)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and store the session locally",
	Run: func(cmd *cobra.Command, _ []string) {
		register(cmd)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Run: func(cmd *cobra.Command, _ []string) {
		logout(cmd)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the current profile, or update it with the name flags",
	Run: func(cmd *cobra.Command, _ []string) {
		profile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, profileCmd)

	loginCmd.Flags().StringP("email", "e", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")

	registerCmd.Flags().StringP("email", "e", "", "account email")
	registerCmd.Flags().String("password", "", "account password (prompted when omitted)")
	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("last-name", "", "last name")
	registerCmd.Flags().String("role", skillgate.RoleCandidate, "account role: candidate or recruiter")

	profileCmd.Flags().String("first-name", "", "new first name")
	profileCmd.Flags().String("last-name", "", "new last name")
}

func login(cmd *cobra.Command) {
	ctx := context.Background()

	log, client, store, _ := mustEnvironment(ctx)

	email := cmd.Flag("email").Value.String()
	if email == "" {
		log.Fatal("email is required")
	}

	password := cmd.Flag("password").Value.String()
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			log.Fatal("reading password", zap.Error(err))
		}
	}

	creds, err := client.Login(email, password)
	if err != nil {
		log.Fatal("logging in", zap.Error(err))
	}

	saveSession(log, store, creds)
}

func register(cmd *cobra.Command) {
	ctx := context.Background()

	log, client, store, _ := mustEnvironment(ctx)

	role := strings.TrimSpace(cmd.Flag("role").Value.String())
	if role != skillgate.RoleCandidate && role != skillgate.RoleRecruiter {
		log.Fatal("invalid role", zap.String("role", role))
	}

	password := cmd.Flag("password").Value.String()
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			log.Fatal("reading password", zap.Error(err))
		}
	}

	creds, err := client.Register(&skillgate.RegisterParams{
		Email:     cmd.Flag("email").Value.String(),
		Password:  password,
		FirstName: cmd.Flag("first-name").Value.String(),
		LastName:  cmd.Flag("last-name").Value.String(),
		Role:      role,
	})
	if err != nil {
		log.Fatal("registering", zap.Error(err))
	}

	saveSession(log, store, creds)
}

func logout(_ *cobra.Command) {
	ctx := context.Background()

	log, _, store, sess := mustEnvironment(ctx)

	if !sess.IsAuthenticated() {
		log.Info("no stored session")
		return
	}

	if err := store.Clear(); err != nil {
		log.Fatal("clearing session", zap.Error(err))
	}

	log.Info("logged out")
}

func profile(cmd *cobra.Command) {
	ctx := context.Background()

	log, client, store, sess := mustEnvironment(ctx)

	if !sess.IsAuthenticated() {
		log.Fatal("not logged in", zap.String("hint", "run 'skillgate login' first"))
	}

	firstName := cmd.Flag("first-name").Value.String()
	lastName := cmd.Flag("last-name").Value.String()

	var user *skillgate.User
	var err error
	if firstName != "" || lastName != "" {
		user, err = client.UpdateProfile(&skillgate.UpdateProfileParams{
			FirstName: firstName,
			LastName:  lastName,
		})
	} else {
		user, err = client.GetProfile()
	}
	if err != nil {
		log.Fatal("fetching profile", zap.Error(err))
	}

	// Keep the cached identity in sync with the backend.
	if err := store.Save(&session.Session{Token: sess.Token, User: user}); err != nil {
		log.Warn("updating cached session", zap.Error(err))
	}

	fmt.Printf("%s %s <%s> (%s)\n", user.FirstName, user.LastName, user.Email, user.Role)
}

func saveSession(log *zap.Logger, store *session.Store, creds *skillgate.Credentials) {
	if err := store.Save(&session.Session{Token: creds.Token, User: creds.User}); err != nil {
		log.Fatal("saving session", zap.Error(err))
	}

	log.Info("session stored",
		zap.String("email", creds.User.Email),
		zap.String("role", creds.User.Role),
	)
}

func promptPassword() (string, error) {
	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
	return prompt.Run()
}

// mustEnvironment builds the logger, client, and session store, exiting on
// any wiring failure.
func mustEnvironment(ctx context.Context) (*zap.Logger, *skillgate.Client, *session.Store, *session.Session) {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	client, store, sess, err := newEnvironment(ctx, zl, config)
	if err != nil {
		zl.Fatal("preparing client", zap.Error(err))
	}

	return zl, client, store, sess
}
