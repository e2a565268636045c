package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"blink-cli/internal/client"
	"blink-cli/internal/config"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Blink cloud and save the session",
	Run: func(cmd *cobra.Command, args []string) {
		email := loginEmail
		if email == "" {
			email = viper.GetString("email")
		}
		password := loginPassword
		if password == "" {
			password = viper.GetString("password")
		}
		if email == "" || password == "" {
			fmt.Println("Error: email and password are required (flags or config).")
			os.Exit(1)
		}

		api := client.New(client.Config{
			Email:    email,
			Password: password,
		}, newLogger())

		token, region, err := api.Login()
		if err != nil {
			fmt.Printf("Login failed: %v\n", err)
			os.Exit(1)
		}

		if err := config.SaveSession(token, region); err != nil {
			fmt.Printf("Warning: could not save session: %v\n", err)
		}

		fmt.Printf("Login successful (region %s). Session saved.\n", region)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Blink account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Blink account password")
}
