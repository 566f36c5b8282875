package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cliftbar/mapviewer/internal/appcfg"
	"github.com/cliftbar/mapviewer/internal/config"
	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage/sqlite"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage map-view config profiles",
}

// withConfigService opens the stores and hands a ready config service to fn.
func withConfigService(ctx context.Context, fn func(ctx context.Context, svc *config.Service) error) error {
	logger := newLogger()
	settings := appcfg.Load(logger)

	store, err := sqlite.New(ctx, settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open track database: %w", err)
	}
	defer func() { _ = store.Close() }()

	profileStore, closeProfiles, err := openProfileStore(ctx, settings, store)
	if err != nil {
		return err
	}
	defer closeProfiles()

	overlay := config.FileOverlay{Path: settings.OverlayPath}
	return fn(ctx, config.NewService(ctx, logger, profileStore, overlay))
}

var profilesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConfigService(cmd.Context(), func(ctx context.Context, svc *config.Service) error {
			names, err := svc.GetAllProfiles(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No profiles stored yet.")
				return nil
			}
			for _, name := range names {
				if name == models.ActiveProfile {
					fmt.Printf("%s (active)\n", color.GreenString(name))
				} else {
					fmt.Println(name)
				}
			}
			return nil
		})
	},
}

var profilesUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Activate a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConfigService(cmd.Context(), func(ctx context.Context, svc *config.Service) error {
			if err := svc.SwitchProfile(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("%s profile %s\n", color.GreenString("activated"), args[0])
			return nil
		})
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a stored profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConfigService(cmd.Context(), func(ctx context.Context, svc *config.Service) error {
			if err := svc.DeleteProfile(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("%s profile %s\n", color.RedString("deleted"), args[0])
			return nil
		})
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := models.ActiveProfile
		if len(args) == 1 {
			name = args[0]
		}
		return withConfigService(cmd.Context(), func(ctx context.Context, svc *config.Service) error {
			cfg := svc.LoadConfig(ctx, name)
			fmt.Printf("profile:      %s\n", name)
			fmt.Printf("zoom:         %d\n", cfg.DefaultZoom)
			fmt.Printf("center:       %g, %g\n", cfg.InitialLat, cfg.InitialLon)
			fmt.Printf("base map:     %s\n", cfg.ActiveBaseMapID)
			fmt.Printf("overlays:     %v\n", cfg.ActiveOverlayIDs)
			fmt.Printf("offline mode: %v\n", cfg.OfflineMode)
			fmt.Printf("theme:        %s\n", cfg.Theme)
			return nil
		})
	},
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesUseCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}
