/*
Copyright © 2024 the SWxSOC authors.
This file is part of the SWxSOC data tools.

The SWxSOC data tools are free software: you can redistribute them and/or
modify them under the terms of the GNU General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The SWxSOC data tools are distributed in the hope that they will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the SWxSOC data tools.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package swxcli implements the swx command-line interface.
package swxcli

import (
	"context"
	"fmt"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/swxsoc/swxsoc"
	"github.com/swxsoc/swxsoc/cloud"
	"github.com/swxsoc/swxsoc/swxutil"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the data tools.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the mission configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "instrument",
			usage: `
              instrument selects the instrument for filename handling and
              data search. Leave empty to search all instruments.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{filenameCreateCmd.Flags(), searchCmd.Flags()},
		},
		{
			name: "level",
			usage: `
              level specifies the data processing level, for example l1.`,
			shorthand:  "l",
			defaultVal: "l1",
			flagsets:   []*pflag.FlagSet{filenameCreateCmd.Flags()},
		},
		{
			name: "levels",
			usage: `
              levels restricts a data search to the listed processing
              levels. The default is all valid levels for the mission.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{searchCmd.Flags()},
		},
		{
			name: "version",
			usage: `
              version specifies the data version string, for example 1.0.0.`,
			defaultVal: "1.0.0",
			flagsets:   []*pflag.FlagSet{filenameCreateCmd.Flags()},
		},
		{
			name: "time",
			usage: `
              time specifies the observation time in RFC 3339 format.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{filenameCreateCmd.Flags()},
		},
		{
			name: "mode",
			usage: `
              mode specifies the instrument mode, if any.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{filenameCreateCmd.Flags()},
		},
		{
			name: "descriptor",
			usage: `
              descriptor specifies the data product descriptor, if any.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{filenameCreateCmd.Flags()},
		},
		{
			name: "test",
			usage: `
              test marks the file as test data.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{filenameCreateCmd.Flags()},
		},
		{
			name: "bucket",
			usage: `
              bucket specifies the blob storage bucket holding the data
              products, in the form provider://name where provider is one
              of file, gs or s3.`,
			shorthand:  "b",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "start",
			usage: `
              start specifies the beginning of the search window in
              RFC 3339 format. The default is the start of the mission.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{searchCmd.Flags()},
		},
		{
			name: "end",
			usage: `
              end specifies the end of the search window in RFC 3339
              format. The default is now.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{searchCmd.Flags()},
		},
		{
			name: "dir",
			usage: `
              dir specifies the directory that fetched files are saved to.`,
			shorthand:  "d",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{fetchCmd.Flags()},
		},
	}

	Cfg = viper.New()
	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // Only create the flag once.
				continue
			}
			switch def := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, def, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, def, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, def, option.usage)
			default:
				panic(fmt.Sprintf("invalid argument type: %T", option.defaultVal))
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
		for i, set := range option.flagsets {
			if i == 0 {
				continue
			}
			set.AddFlag(option.flagsets[0].Lookup(option.name))
		}
	}
}

// missionConfig loads the mission configuration named by the --config
// flag, falling back to the built-in defaults.
func missionConfig() (*swxutil.Config, error) {
	if path := Cfg.GetString("config"); path != "" {
		return swxutil.LoadConfig(path)
	}
	return swxutil.DefaultConfig(), nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "swx",
	Short: "Tools for space weather science data products.",
	Long: `swx validates, names and locates space weather science data files.
Use the subcommands specified below to access the functionality.

Configuration can be changed by providing a mission configuration file
with the --config flag or by setting the SWXSOC_MISSION environment
variable to select a mission.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the SWxSOC data tools.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("swx v%s\n", swxsoc.Version)
	},
	DisableAutoGenTag: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a science data file against the metadata schema.",
	Long: `validate checks the global and variable attributes of a CDF or FITS
science data file against the mission metadata schema and prints one
line per finding. It exits nonzero if any findings are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		findings := swxsoc.Validate(args[0])
		for _, f := range findings {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		if len(findings) > 0 {
			return fmt.Errorf("swx: %d validation findings in %s", len(findings), args[0])
		}
		logrus.WithField("file", args[0]).Info("file is valid")
		return nil
	},
	DisableAutoGenTag: true,
}

var filenameCmd = &cobra.Command{
	Use:   "filename",
	Short: "Create and parse science filenames.",
	Long: `filename works with mission science filenames of the form
{mission}_{instrument}_{mode}_{level}{test}_{descriptor}_{time}_v{version}.
Use the subcommands specified below to create or parse a filename.`,
	DisableAutoGenTag: true,
}

var filenameCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a science filename from its parts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := missionConfig()
		if err != nil {
			return err
		}
		t := time.Now().UTC()
		if s := Cfg.GetString("time"); s != "" {
			t, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return fmt.Errorf("swx: parsing time %s: %v", s, err)
			}
		}
		name, err := swxutil.CreateScienceFilename(cfg,
			Cfg.GetString("instrument"), t,
			Cfg.GetString("level"), Cfg.GetString("version"),
			Cfg.GetString("mode"), Cfg.GetString("descriptor"),
			Cfg.GetBool("test"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
	DisableAutoGenTag: true,
}

var filenameParseCmd = &cobra.Command{
	Use:   "parse [filename]",
	Short: "Parse a science filename into its parts.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := missionConfig()
		if err != nil {
			return err
		}
		d, err := swxutil.ParseScienceFilename(cfg, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "instrument: %s\n", d.Instrument)
		if d.Mode != "" {
			fmt.Fprintf(out, "mode:       %s\n", d.Mode)
		}
		fmt.Fprintf(out, "level:      %s\n", d.Level)
		if d.Descriptor != "" {
			fmt.Fprintf(out, "descriptor: %s\n", d.Descriptor)
		}
		fmt.Fprintf(out, "time:       %s\n", d.Time.Format(time.RFC3339))
		fmt.Fprintf(out, "version:    %s\n", d.Version)
		if d.Test {
			fmt.Fprintf(out, "test:       true\n")
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a bucket for science data products.",
	Long: `search lists the science data products in a blob storage bucket
that match the given instrument, levels and time window.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := missionConfig()
		if err != nil {
			return err
		}
		q := cloud.Query{
			Instrument: Cfg.GetString("instrument"),
			Levels:     Cfg.GetStringSlice("levels"),
		}
		if s := Cfg.GetString("start"); s != "" {
			q.Start, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return fmt.Errorf("swx: parsing start time %s: %v", s, err)
			}
		}
		if s := Cfg.GetString("end"); s != "" {
			q.End, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return fmt.Errorf("swx: parsing end time %s: %v", s, err)
			}
		}
		ctx := context.Background()
		bucket, err := cloud.OpenBucket(ctx, Cfg.GetString("bucket"))
		if err != nil {
			return err
		}
		results, err := cloud.NewClient(bucket, cfg).Search(ctx, q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range results {
			fmt.Fprintf(out, "%s\t%d\t%s\n", r.Key, r.Size, r.ModTime.Format(time.RFC3339))
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [key]",
	Short: "Download a science data product from a bucket.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := missionConfig()
		if err != nil {
			return err
		}
		ctx := context.Background()
		bucket, err := cloud.OpenBucket(ctx, Cfg.GetString("bucket"))
		if err != nil {
			return err
		}
		path, err := cloud.NewClient(bucket, cfg).Fetch(ctx, args[0], Cfg.GetString("dir"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
	DisableAutoGenTag: true,
}

func init() {
	Root.AddCommand(versionCmd, validateCmd, filenameCmd, searchCmd, fetchCmd)
	filenameCmd.AddCommand(filenameCreateCmd, filenameParseCmd)
}
