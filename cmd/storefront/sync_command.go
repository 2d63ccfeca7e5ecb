package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/internal/api"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <id>",
		Short: "Fetch live release data for a listing",
		Long: "Runs the release lookups for one listing and prints what came back.\n" +
			"Missing sections mean the lookup failed or the listing has no repository.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListingID(args[0])
			if err != nil {
				return err
			}
			svcs, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			info, err := svcs.Listings.Release(cmd.Context(), id)
			if err != nil {
				return err
			}
			if wantJSON(cmd, ctx.format()) {
				return writeJSON(cmd, info)
			}
			renderRelease(cmd, info)
			return nil
		},
	}
}

func renderRelease(cmd *cobra.Command, info *api.ReleaseInfo) {
	out := cmd.OutOrStdout()
	if info.Repository == nil && info.Snapshot == nil && info.Readme == nil {
		fmt.Fprintf(out, "No live release data for listing %d\n", info.ListingID)
		return
	}

	pairs := [][2]string{}
	if repo := info.Repository; repo != nil {
		pairs = append(pairs,
			[2]string{"Repository", repo.FullName},
			[2]string{"Owner", repo.Owner},
			[2]string{"Stars", strconv.Itoa(repo.Stars)},
			[2]string{"Archived", yesNo(repo.Archived)},
		)
	} else {
		pairs = append(pairs, [2]string{"Repository", "unavailable"})
	}
	if snap := info.Snapshot; snap != nil {
		pairs = append(pairs, [2]string{"Latest tag", snap.TagName})
		if snap.PublishedAt != nil {
			pairs = append(pairs, [2]string{"Published", *snap.PublishedAt})
		}
		if snap.PrimaryAssetSizeBytes != nil {
			pairs = append(pairs, [2]string{"Asset size", strconv.FormatInt(*snap.PrimaryAssetSizeBytes, 10) + " bytes"})
		}
		if snap.PrimaryAssetDownloadURL != nil {
			pairs = append(pairs, [2]string{"Asset download", *snap.PrimaryAssetDownloadURL})
		}
	} else {
		pairs = append(pairs, [2]string{"Latest release", "unavailable"})
	}
	readme := "unavailable"
	if info.Readme != nil {
		readme = fmt.Sprintf("%d bytes", len(*info.Readme))
	}
	pairs = append(pairs, [2]string{"Readme", readme})
	fmt.Fprintln(out, renderKeyValues(pairs))
}
