package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/lockbox-mobile/lockbox/internal/vault/backup"
	"github.com/lockbox-mobile/lockbox/internal/vault/session"
)

func (a *App) settings(ctx context.Context, args []string) {
	s := a.session.Settings()

	if len(args) > 0 && args[0] == "reset" {
		if _, err := s.Reset(ctx); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("Settings reset to defaults.")
		return
	}

	current, err := s.Init(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("theme:                %s\n", current.Theme)
	fmt.Printf("autoLockTimeout:      %dms\n", current.AutoLockTimeout)
	fmt.Printf("showBiometricPrompt:  %v\n", current.ShowBiometricPrompt)
	fmt.Printf("maskSensitiveData:    %v\n", current.MaskSensitiveData)
	fmt.Printf("installId:            %s\n", current.InstallID)
}

func (a *App) premium(ctx context.Context) {
	premium, err := a.session.Settings().IsPremium(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("Premium: %v\n", premium)
	for _, f := range session.PremiumFeatures() {
		status := "coming soon"
		if f.Available {
			status = "available"
		}
		fmt.Printf("  %-18s %s (%s)\n", f.Name, f.Description, status)
	}
}

func (a *App) export(ctx context.Context) {
	st, _, ok := a.vault()
	if !ok {
		return
	}

	passphrase, err := GetPassword(os.Stdout, "Backup passphrase: ")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	path, err := backup.Export(ctx, st, a.config.BackupDir, passphrase)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("Backup written to", path)
}

func (a *App) importBackup(ctx context.Context, args []string) {
	st, proj, ok := a.vault()
	if !ok {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: import <file>")
		return
	}

	passphrase, err := GetPassword(os.Stdout, "Backup passphrase: ")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	n, err := backup.Import(ctx, st, args[0], passphrase)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	proj.Reset()
	fmt.Printf("Restored %d records.\n", n)
}
