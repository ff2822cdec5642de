package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var accountViewingKeyFlag string

var accountCmd = &cobra.Command{
	Use:     "account",
	Aliases: []string{"accounts"},
	Short:   "Manage Namada accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Register a transparent (tnam…) or shielded (znam…) address",
	Long: `Register an address under a name. The account kind follows from the
address prefix. Shielded accounts may carry a viewing key, which is kept in
the OS keychain rather than in accounts.json.

Examples:
  namcli account add alice tnam1qz...
  namcli account add vault znam1... --viewing-key zvknam1...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, address := args[0], args[1]
		mgr := newAccountManager()

		var (
			a   *account.Account
			err error
		)
		if accountViewingKeyFlag != "" {
			a, err = mgr.AddShielded(name, address, accountViewingKeyFlag)
		} else {
			a, err = mgr.Add(name, address)
		}
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("%s account %q added: %s", a.Kind, name, ui.Addr(a.Address))))
		if !a.IsDefault {
			fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: namcli account use %s", name)))
		}
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts := newAccountManager().List()
		if len(accounts) == 0 {
			fmt.Println(ui.Info("No accounts configured yet."))
			fmt.Println(ui.Hint("Add one with: namcli account add alice tnam1..."))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 48},
			{Title: "Kind", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, a := range accounts {
			def := ""
			if a.IsDefault {
				def = ui.StyleSuccess.Render("✓")
			}
			kind := a.Kind
			if a.ViewingKeyRef != "" {
				kind += " (vk)"
			}
			t.AddRow(ui.Row{
				ui.Val(a.Name),
				ui.Addr(ui.TruncateAddr(a.Address)),
				ui.Meta(kind),
				def,
			})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d account(s) configured", len(accounts))))
		return nil
	},
}

var accountUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := newAccountManager().SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultAccount = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default account set to %q.", name)))
		fmt.Println(ui.Hint("It is used whenever --account is not given."))
		return nil
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an account and its viewing key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !ui.ConfirmDanger(fmt.Sprintf("Remove account %q?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := newAccountManager().Remove(name); err != nil {
			return err
		}
		if cfg.DefaultAccount == name {
			cfg.DefaultAccount = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Account %q removed.", name)))
		return nil
	},
}

var accountViewingKeyCmd = &cobra.Command{
	Use:   "viewing-key <name>",
	Short: "Show the viewing key of a shielded account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		fmt.Println(ui.Warn("A viewing key reveals every shielded transaction of the account."))
		if ui.Prompt(fmt.Sprintf("Type account name %q to confirm", name), "") != name {
			fmt.Println(ui.Err("Name mismatch, cancelled."))
			return nil
		}
		vk, err := newAccountManager().ViewingKey(name)
		if err != nil {
			return err
		}
		fmt.Println(ui.Val(vk))
		return nil
	},
}

func init() {
	accountAddCmd.Flags().StringVar(&accountViewingKeyFlag, "viewing-key", "", "viewing key of a shielded account")
	accountCmd.AddCommand(accountAddCmd, accountListCmd, accountUseCmd, accountRemoveCmd, accountViewingKeyCmd)
}
