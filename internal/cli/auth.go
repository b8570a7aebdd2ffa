package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/taskdeck/internal/gateway"
	"github.com/existflow/taskdeck/internal/session"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear the saved session",
	RunE:  runLogout,
}

var registerAuthCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [user-id]",
	Short: "Verify your email with the code you received",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

var resendCmd = &cobra.Command{
	Use:   "resend [user-id]",
	Short: "Resend the verification code",
	Args:  cobra.ExactArgs(1),
	RunE:  runResend,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerAuthCmd)
	authCmd.AddCommand(verifyCmd)
	authCmd.AddCommand(resendCmd)
	authCmd.AddCommand(whoamiCmd)
}

func readLine(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	email := readLine("Email: ")
	password := readPassword("Password: ")

	fmt.Println("🔄 Logging in...")
	result, err := app.Client.Login(context.Background(), email, password)
	if err != nil {
		return err
	}

	if result.RequiresVerification {
		fmt.Println("📬 Your email is not verified yet. A new code has been sent.")
		return promptVerify(app, result.UserID)
	}

	return saveSession(app, result)
}

func runRegister(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	name := readLine("Name: ")
	email := readLine("Email: ")
	password := readPassword("Password: ")
	confirm := readPassword("Confirm Password: ")

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	result, err := app.Client.Register(context.Background(), name, email, password)
	if err != nil {
		return err
	}

	fmt.Println("📬 Account created! Check your email for a verification code.")
	return promptVerify(app, result.UserID)
}

func runVerify(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	return promptVerify(app, args[0])
}

func runResend(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Client.ResendOTP(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Println("📬 Code resent. Check your email.")
	return nil
}

func promptVerify(app *App, userID string) error {
	otp := readLine("Verification code: ")
	if otp == "" {
		fmt.Println("❌ Code required. Run 'taskdeck auth verify " + userID + "' to retry.")
		return nil
	}

	fmt.Println("🔄 Verifying...")
	result, err := app.Client.VerifyEmail(context.Background(), userID, otp)
	if err != nil {
		fmt.Printf("⚠️  Verification failed: %v\n", err)
		if readLine("Resend code? [y/N] ") == "y" {
			if err := app.Client.ResendOTP(context.Background(), userID); err != nil {
				return err
			}
			fmt.Println("📬 Code resent.")
			return promptVerify(app, userID)
		}
		return nil
	}

	return saveSession(app, result)
}

func saveSession(app *App, result gateway.LoginResult) error {
	sess, err := session.New(result.Token, result.User)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	app.Store.SetSession(sess)

	fmt.Printf("✅ Logged in as %s <%s>\n", result.User.Name, result.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.LoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	app.Store.SetSession(nil)

	fmt.Println("✅ Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	sess := app.Store.Session()
	if sess == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	// Prefer the server's view when reachable
	if user, err := app.Client.Me(context.Background()); err == nil {
		fmt.Printf("👤 %s <%s>\n", user.Name, user.Email)
		return nil
	}

	fmt.Printf("👤 %s <%s> (cached)\n", sess.User.Name, sess.User.Email)
	return nil
}
