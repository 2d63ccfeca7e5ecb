package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/assets"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var listingID int64
	var field string

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Resolve a share link into a direct image URL",
		Long: "Resolves a share-page link through the configured image resolver.\n" +
			"With --listing the result is written into the listing's image field.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			if listingID > 0 {
				result, err := svcs.Admin.ResolveAsset(cmd.Context(), listingID, field, args[0])
				if err != nil {
					var resolveErr *api.ResolveError
					if errors.As(err, &resolveErr) {
						return fmt.Errorf("could not resolve %s: %s", resolveErr.SourceURL, resolveErr.Message)
					}
					return err
				}
				if wantJSON(cmd, ctx.format()) {
					return writeJSON(cmd, result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
					{"Field", result.Field},
					{"Status", result.Status},
					{"Stored URL", result.URL},
				}))
				return nil
			}

			if svcs.Resolver == nil {
				return errors.New("image resolution is not configured")
			}
			res := svcs.Resolver.Resolve(cmd.Context(), args[0])
			if wantJSON(cmd, ctx.format()) {
				return writeJSON(cmd, api.AssetResult{
					SourceURL: res.SourceURL,
					URL:       res.URL(),
					Status:    string(res.Status),
					Message:   res.Message,
				})
			}
			pairs := [][2]string{
				{"Source", res.SourceURL},
				{"Status", string(res.Status)},
				{"URL", res.URL()},
			}
			if res.Message != "" {
				pairs = append(pairs, [2]string{"Message", res.Message})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			if res.Status == assets.StatusFailed || res.Status == assets.StatusSkipped {
				return fmt.Errorf("resolution %s", res.Status)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&listingID, "listing", 0, "Listing ID to store the resolved URL in")
	cmd.Flags().StringVar(&field, "field", "icon", "Image field to write: icon, screenshot, or screenshot:N")
	return cmd
}
