package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/catalog"
)

func newListingCommand(ctx *commandContext) *cobra.Command {
	listingCmd := &cobra.Command{
		Use:   "listing",
		Short: "Inspect and manage catalog listings",
	}

	listingCmd.AddCommand(newListingListCommand(ctx))
	listingCmd.AddCommand(newListingShowCommand(ctx))
	listingCmd.AddCommand(newListingImportCommand(ctx))
	listingCmd.AddCommand(newListingDeleteCommand(ctx))

	return listingCmd
}

func newListingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			items, err := svcs.Listings.List(cmd.Context())
			if err != nil {
				return err
			}
			if items == nil {
				items = []api.ListingSummary{}
			}
			if wantJSON(cmd, ctx.format()) {
				return writeJSON(cmd, api.ListingListResponse{Items: items})
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No listings")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.Name,
					item.CategoryLabel,
					item.Version,
					item.Developer,
					strconv.FormatFloat(item.Rating, 'f', 1, 64),
					yesNo(item.HasRepository),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Category", "Version", "Developer", "Rating", "Repo"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newListingShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the enriched view of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListingID(args[0])
			if err != nil {
				return err
			}
			svcs, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			listing, err := svcs.Listings.Detail(cmd.Context(), id)
			if err != nil {
				return err
			}
			if wantJSON(cmd, ctx.format()) {
				return writeJSON(cmd, listing)
			}
			renderListing(cmd, listing)
			return nil
		},
	}
}

func renderListing(cmd *cobra.Command, listing *api.Listing) {
	out := cmd.OutOrStdout()
	pairs := [][2]string{
		{"Name", listing.Name},
		{"Category", listing.CategoryLabel},
		{"Developer", listing.Developer},
		{"Version", listing.Version},
		{"Size", listing.SizeLabel},
		{"Rating", strconv.FormatFloat(listing.Rating, 'f', 1, 64)},
		{"Download", listing.DownloadURL},
		{"Icon", listing.IconURL},
		{"Screenshots", strings.Join(listing.Screenshots, "\n")},
		{"Live release", yesNo(listing.Live)},
	}
	if listing.Stars != nil {
		pairs = append(pairs, [2]string{"Stars", strconv.Itoa(*listing.Stars)})
	}
	if listing.PublishedAt != nil {
		pairs = append(pairs, [2]string{"Published", *listing.PublishedAt})
	}
	if listing.SourceRepositoryURL != nil {
		pairs = append(pairs, [2]string{"Repository", *listing.SourceRepositoryURL})
	}
	fmt.Fprintln(out, renderKeyValues(pairs))

	if len(listing.Timeline) == 0 {
		return
	}
	rows := make([][]string, 0, len(listing.Timeline))
	for _, entry := range listing.Timeline {
		download := ""
		if entry.DownloadURL != nil {
			download = *entry.DownloadURL
		}
		rows = append(rows, []string{entry.Version, entry.Date, entry.SizeLabel, entry.SourceKind, download})
	}
	fmt.Fprintln(out, renderTable([]string{"Version", "Date", "Size", "Source", "Download"}, rows, nil))
}

func newListingImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import listings from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := catalog.LoadSeed(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			result, err := store.Import(cmd.Context(), records)
			if err != nil {
				return err
			}
			if wantJSON(cmd, ctx.format()) {
				return writeJSON(cmd, map[string]int{"created": result.Created, "updated": result.Updated})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d listing(s): %d created, %d updated\n",
				result.Created+result.Updated, result.Created, result.Updated)
			return nil
		},
	}
}

func newListingDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListingID(args[0])
			if err != nil {
				return err
			}
			svcs, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			if err := svcs.Admin.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted listing %d\n", id)
			return nil
		},
	}
}

func parseListingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid listing id %q", raw)
	}
	return id, nil
}
