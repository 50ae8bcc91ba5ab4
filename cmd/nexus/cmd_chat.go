package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"nexus-assist/internal/chat"

	"github.com/spf13/cobra"
)

var (
	flagLimit   int
	flagReadID  string
	flagReadAll bool
	flagDelete  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask Nexus legal questions",
	Long:  `Starts a question-and-answer session. Type 'exit' to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := nx.userID(); err != nil {
			return err
		}

		if prompts := nx.client.SuggestedPrompts(nx.ctx); prompts.Success && len(prompts.Data) > 0 {
			nx.println(headingStyle.Render("Try asking:"))
			for _, p := range prompts.Data {
				nx.println(mutedStyle.Render("  • " + p))
			}
		}

		conv := chat.New(nx.client, &termSink{w: nx.out}, nx.typewriterOptions())
		defer conv.Close()

		for {
			q, err := nx.prompt("You")
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			switch strings.ToLower(q) {
			case "exit", "quit":
				return nil
			case "":
				continue
			}

			fmt.Fprint(nx.out, headingStyle.Render("Nexus: "))
			res := conv.Ask(nx.ctx, q)
			if !res.Success {
				nx.println()
				nx.toasts.Error(res.Message)
				continue
			}
			if err := conv.Wait(nx.ctx); err != nil {
				return err
			}
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or delete past questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagDelete != "" {
			return report(nx, nx.client.DeleteChat(nx.ctx, flagDelete))
		}

		res := nx.client.ChatHistory(nx.ctx)
		if !res.Success {
			return report(nx, res)
		}
		if len(res.Data) == 0 {
			nx.println(mutedStyle.Render("No chats yet"))
			return nil
		}
		for _, e := range res.Data {
			nx.printf("%s %s\n", mutedStyle.Render(e.CreatedAt.Format("2006-01-02 15:04")+" "+e.ID), e.Question)
			nx.println(firstLine(e.Answer, 100))
		}
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications or mark them read",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case flagReadAll:
			return report(nx, nx.client.MarkAllRead(nx.ctx))
		case flagReadID != "":
			return report(nx, nx.client.MarkRead(nx.ctx, flagReadID))
		}

		count := nx.client.UnreadCount(nx.ctx)
		if !count.Success {
			return report(nx, count)
		}
		res := nx.client.Notifications(nx.ctx, flagLimit)
		if !res.Success {
			return report(nx, res)
		}

		nx.println(titleStyle.Render(fmt.Sprintf("%d unread", count.Data)))
		for _, n := range res.Data {
			mark := " "
			if !n.Read {
				mark = "•"
			}
			nx.printf("%s %s %s\n", mark, headingStyle.Render(n.Title), mutedStyle.Render(n.ID))
			nx.println("  " + n.Message)
		}
		return nil
	},
}

func registerChat() {
	historyCmd.Flags().StringVar(&flagDelete, "delete", "", "Delete a chat by id")
	notificationsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum notifications to show")
	notificationsCmd.Flags().StringVar(&flagReadID, "read", "", "Mark one notification read")
	notificationsCmd.Flags().BoolVar(&flagReadAll, "all", false, "Mark every notification read")
	notificationsCmd.MarkFlagsMutuallyExclusive("read", "all")

	rootCmd.AddCommand(chatCmd, historyCmd, notificationsCmd)
}
