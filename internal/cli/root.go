package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lockbox-mobile/lockbox/internal/common"
)

func (a *App) getStatus() string {
	if a.session.Authenticated() {
		return "(unlocked)"
	}
	return "(locked)"
}

// Root runs the interactive loop. Commands execute synchronously; there is
// never more than one store operation in flight.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Lockbox (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.bootstrap(ctx)

	for {
		fmt.Printf("lockbox %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "setup":
			a.setup(ctx)
		case "unlock":
			a.unlock(ctx)
		case "lock":
			a.session.Lock(ctx)
		case "list":
			a.list(ctx, args)
		case "add":
			a.add(ctx, args)
		case "show":
			a.show(ctx, args)
		case "edit":
			a.edit(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "repair":
			a.repair(ctx)
		case "export":
			a.export(ctx)
		case "import":
			a.importBackup(ctx, args)
		case "settings":
			a.settings(ctx, args)
		case "premium":
			a.premium(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

// bootstrap walks a fresh install through setup, otherwise prompts to unlock.
func (a *App) bootstrap(ctx context.Context) {
	done, err := a.session.SetupComplete(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if !done {
		fmt.Println("No vault found, starting first-run setup.")
		a.setup(ctx)
		return
	}
	a.unlock(ctx)
}

func (a *App) help() {
	if a.session.Authenticated() {
		fmt.Println("Available commands: list <category>, add <category>, show <category> <id>,")
		fmt.Println("  edit <category> <id>, delete <category> <id>, repair, export, import <file>,")
		fmt.Println("  settings [reset], premium, lock, exit")
		fmt.Println("Categories: credential, personalInfo, note")
	} else {
		fmt.Println("Available commands: setup, unlock, settings, exit")
	}
}

func (a *App) setup(ctx context.Context) {
	done, err := a.session.SetupComplete(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if done {
		fmt.Println("Setup already completed.")
		return
	}

	pin, err := GetPassword(os.Stdout, "Choose a PIN: ")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	confirm, err := GetPassword(os.Stdout, "Repeat PIN: ")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	match := string(pin) == string(confirm)
	common.WipeByteArray(confirm)
	if !match {
		fmt.Println("PINs do not match.")
		return
	}
	if len(pin) < 4 {
		fmt.Println("PIN must be at least 4 characters.")
		return
	}

	if err := a.gate.Enroll(ctx, pin); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := a.session.CompleteSetup(ctx); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Vault created. Use 'unlock' to open it.")
}

func (a *App) unlock(ctx context.Context) {
	if err := a.session.Unlock(ctx); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Vault unlocked.")
}
