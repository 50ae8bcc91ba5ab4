package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nexus-assist/internal/model"
	"nexus-assist/internal/otp"

	"github.com/spf13/cobra"
)

var (
	flagName  string
	flagEmail string
	flagToken string
	flagPhone string
	flagGen   string
	flagDOB   string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and verify the email address",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := nx.promptValue(flagName, "Full name")
		if err != nil {
			return err
		}
		email, err := nx.promptValue(flagEmail, "Email")
		if err != nil {
			return err
		}
		password, err := nx.prompt("Password")
		if err != nil {
			return err
		}

		res := nx.client.Signup(nx.ctx, model.SignupRequest{FullName: name, Email: email, Password: password})
		if err := report(nx, res); err != nil {
			return err
		}
		return verifyFlow(email)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Enter the emailed verification code",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := nx.promptValue(flagEmail, "Email")
		if err != nil {
			return err
		}
		return verifyFlow(email)
	},
}

// verifyFlow asks for the code until it is accepted. Typing "resend" asks
// for a new code once the countdown has finished.
func verifyFlow(email string) error {
	countdown := otp.NewCountdown(int(nx.cfg.OTP.ResendAfter/time.Second), time.Second, nil)
	countdown.Start(nx.ctx)
	defer countdown.Stop()

	for {
		code, err := nx.prompt("Verification code (or 'resend')")
		if err != nil {
			return err
		}

		if strings.EqualFold(code, "resend") {
			sent, err := countdown.Resend(nx.ctx, func(ctx context.Context) error {
				return nx.client.ResendOTP(ctx, email).Err()
			})
			switch {
			case !sent:
				nx.toasts.Warning(fmt.Sprintf("You can request a new code in %ds", countdown.Remaining()))
			case err != nil:
				nx.toasts.Error(err.Error())
			default:
				nx.toasts.Info("A new code is on its way")
			}
			continue
		}

		res := nx.client.VerifyOTP(nx.ctx, email, code)
		if res.Success {
			nx.toasts.Success(res.Message)
			return nil
		}
		nx.toasts.Error(res.Message)
	}
}

var resendCmd = &cobra.Command{
	Use:   "resend-otp",
	Short: "Send a new verification code",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := nx.promptValue(flagEmail, "Email")
		if err != nil {
			return err
		}
		return report(nx, nx.client.ResendOTP(nx.ctx, email))
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := nx.promptValue(flagEmail, "Email")
		if err != nil {
			return err
		}
		password, err := nx.prompt("Password")
		if err != nil {
			return err
		}

		res := nx.client.Login(nx.ctx, email, password)
		if err := report(nx, res); err != nil {
			return err
		}
		nx.printf("Signed in as %s\n", headingStyle.Render(res.Data.User.FullName))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := nx.client.Logout(); err != nil {
			return err
		}
		nx.toasts.Success("Logged out")
		return nil
	},
}

var forgotCmd = &cobra.Command{
	Use:   "forgot",
	Short: "Email a password reset token",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := nx.promptValue(flagEmail, "Email")
		if err != nil {
			return err
		}
		return report(nx, nx.client.ForgotPassword(nx.ctx, email))
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password with a reset token",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := nx.promptValue(flagToken, "Reset token")
		if err != nil {
			return err
		}
		password, err := nx.prompt("New password")
		if err != nil {
			return err
		}
		return report(nx, nx.client.ResetPassword(nx.ctx, token, password))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := nx.userID()
		if err != nil {
			return err
		}
		res := nx.client.GetUser(nx.ctx, userID)
		if !res.Success {
			return report(nx, res)
		}
		printUser(res.Data.User)
		return nil
	},
}

func printUser(u model.User) {
	nx.println(titleStyle.Render(u.FullName))
	rows := [][2]string{
		{"Email", u.Email},
		{"Phone", u.PhoneNumber},
		{"Gender", u.Gender},
		{"Date of birth", u.DateOfBirth},
		{"Role", u.Role},
	}
	for _, r := range rows {
		if r[1] != "" {
			nx.printf("%s %s\n", mutedStyle.Render(r[0]+":"), r[1])
		}
	}
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile details",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.UpdateUserRequest{
			FullName:    flagName,
			PhoneNumber: flagPhone,
			Gender:      flagGen,
			DateOfBirth: flagDOB,
		}
		if req == (model.UpdateUserRequest{}) {
			return fmt.Errorf("nothing to update; pass --name, --phone, --gender or --dob")
		}
		res := nx.client.UpdateUser(nx.ctx, req)
		if err := report(nx, res); err != nil {
			return err
		}
		printUser(res.Data.User)
		return nil
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := nx.prompt("Current password")
		if err != nil {
			return err
		}
		next, err := nx.prompt("New password")
		if err != nil {
			return err
		}
		return report(nx, nx.client.ChangePassword(nx.ctx, current, next))
	},
}

func registerAuth() {
	for _, c := range []*cobra.Command{signupCmd, verifyCmd, resendCmd, loginCmd, forgotCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "Account email")
	}
	signupCmd.Flags().StringVar(&flagName, "name", "", "Full name")
	resetCmd.Flags().StringVar(&flagToken, "token", "", "Reset token from the email")

	profileUpdateCmd.Flags().StringVar(&flagName, "name", "", "Full name")
	profileUpdateCmd.Flags().StringVar(&flagPhone, "phone", "", "Phone number")
	profileUpdateCmd.Flags().StringVar(&flagGen, "gender", "", "Gender")
	profileUpdateCmd.Flags().StringVar(&flagDOB, "dob", "", "Date of birth (YYYY-MM-DD)")
	profileCmd.AddCommand(profileUpdateCmd)

	rootCmd.AddCommand(signupCmd, verifyCmd, resendCmd, loginCmd, logoutCmd,
		forgotCmd, resetCmd, whoamiCmd, profileCmd, passwordCmd)
}
