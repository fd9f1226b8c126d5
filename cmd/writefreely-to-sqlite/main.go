package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "writefreely-to-sqlite",
		Short:         "Save data from a WriteFreely instance to a SQLite database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(authCmd())
	root.AddCommand(userCmd())
	root.AddCommand(postsCmd())
	root.AddCommand(collectionsCmd())
	root.AddCommand(logoutCmd())
	root.AddCommand(searchCmd())

	return root
}

func authCmd() *cobra.Command {
	var authPath string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to WriteFreely and save the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, authPath)
		},
	}

	cmd.Flags().StringVarP(&authPath, "auth", "a", "", "path to save tokens to (default: from config)")
	return cmd
}

func userCmd() *cobra.Command {
	var authPath string

	cmd := &cobra.Command{
		Use:   "user [DB_PATH]",
		Short: "Save the authenticated user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUser(cmd, dbPathArg(args), authPath)
		},
	}

	cmd.Flags().StringVarP(&authPath, "auth", "a", "", "path to auth.json token file (default: from config)")
	return cmd
}

func postsCmd() *cobra.Command {
	var authPath string

	cmd := &cobra.Command{
		Use:   "posts [DB_PATH]",
		Short: "Save the authenticated user's posts and their view counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPosts(cmd, dbPathArg(args), authPath)
		},
	}

	cmd.Flags().StringVarP(&authPath, "auth", "a", "", "path to auth.json token file (default: from config)")
	return cmd
}

func collectionsCmd() *cobra.Command {
	var authPath string

	cmd := &cobra.Command{
		Use:   "collections [DB_PATH]",
		Short: "Save the authenticated user's collections and their view counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollections(cmd, dbPathArg(args), authPath)
		},
	}

	cmd.Flags().StringVarP(&authPath, "auth", "a", "", "path to auth.json token file (default: from config)")
	return cmd
}

func logoutCmd() *cobra.Command {
	var authPath string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, authPath)
		},
	}

	cmd.Flags().StringVarP(&authPath, "auth", "a", "", "path to auth.json token file (default: from config)")
	return cmd
}

func searchCmd() *cobra.Command {
	var (
		collections bool
		jsonOutput  bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "search [DB_PATH] QUERY",
		Short: "Full-text search saved posts or collections",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, query := "", args[0]
			if len(args) == 2 {
				dbPath, query = args[0], args[1]
			}
			return runSearch(cmd, dbPath, query, collections, jsonOutput, limit)
		},
	}

	cmd.Flags().BoolVar(&collections, "collections", false, "search collections instead of posts")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "max results to show")
	return cmd
}

func dbPathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
