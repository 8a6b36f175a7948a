package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pterm/pterm"

	"github.com/mikey-austin/media_federation/internal/core"
	"github.com/mikey-austin/media_federation/pkg/mf"
)

// HumanPrinter prints human-readable output, to stdout unless Out is set.
// Colored cells are always the last column so tab alignment is unaffected.
type HumanPrinter struct {
	Out   io.Writer
	Color bool
}

// Print renders human output.
func (p HumanPrinter) Print(v any) error {
	w := writerOrStdout(p.Out)
	switch data := v.(type) {
	case core.ServersResult:
		return p.printServers(w, data)
	case core.LibrariesResult:
		return printLibraries(w, data)
	case core.GroupedResults:
		return p.printGrouped(w, data)
	case core.DetailsResult:
		return p.printDetails(w, data)
	case core.SeasonsResult:
		return printSeasons(w, data)
	case core.EpisodesResult:
		return p.printEpisodes(w, data)
	case AssetOutput:
		return printAsset(w, data)
	default:
		_, err := fmt.Fprintln(w, "ok")
		return err
	}
}

func (p HumanPrinter) paint(c pterm.Color, s string) string {
	if !p.Color || s == "" {
		return s
	}
	return c.Sprint(s)
}

func (p HumanPrinter) printServers(w io.Writer, result core.ServersResult) error {
	if len(result.Servers) == 0 {
		_, err := fmt.Fprintln(w, "No servers configured.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tID\tSTATUS"); err != nil {
		return err
	}
	for _, s := range result.Servers {
		status := p.paint(pterm.FgRed, "offline")
		if s.IsOnline {
			status = p.paint(pterm.FgGreen, "online")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.ID, status); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printLibraries(w io.Writer, result core.LibrariesResult) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", result.Server.Name, result.Server.ID); err != nil {
		return err
	}
	if len(result.Libraries) == 0 {
		_, err := fmt.Fprintln(w, "No libraries found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "KEY\tTITLE"); err != nil {
		return err
	}
	for _, lib := range result.Libraries {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", lib.Key, lib.Title); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (p HumanPrinter) printGrouped(w io.Writer, result core.GroupedResults) error {
	if result.Title != "" {
		if _, err := fmt.Fprintln(w, result.Title); err != nil {
			return err
		}
	}
	if len(result.Results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	header := "TITLE\tYEAR\tTYPE\tSERVERS\tGUID"
	if result.Versions != nil {
		header += "\tVERSIONS"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}
	for _, r := range result.Results {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", r.Title, formatYear(r.Year), r.ItemType, serverNames(r.Servers), r.GUID)
		if result.Versions != nil {
			line += "\t" + p.paint(pterm.FgCyan, versionBadges(result.Versions[r.GUID]))
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (p HumanPrinter) printDetails(w io.Writer, result core.DetailsResult) error {
	d := result.Details
	title := d.Title
	if d.Year != nil {
		title = fmt.Sprintf("%s (%d)", d.Title, *d.Year)
	}
	if _, err := fmt.Fprintln(w, p.paint(pterm.FgLightWhite, title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  %s\n", d.ItemType, d.GUID); err != nil {
		return err
	}
	if d.Summary != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", d.Summary); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "\nAvailable on:"); err != nil {
		return err
	}
	if len(d.AvailableOn) == 0 {
		_, err := fmt.Fprintln(w, "  (no servers)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "SERVER\tID\tRATING_KEY\tVERSIONS"); err != nil {
		return err
	}
	for _, a := range d.AvailableOn {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ServerName, a.ServerID, a.RatingKey, p.paint(pterm.FgCyan, versionBadges(a.Versions))); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printSeasons(w io.Writer, result core.SeasonsResult) error {
	if len(result.Seasons) == 0 {
		_, err := fmt.Fprintln(w, "No seasons found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tTITLE\tEPISODES"); err != nil {
		return err
	}
	for _, s := range result.Seasons {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\n", s.ID, s.Title, s.EpisodeCount); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (p HumanPrinter) printEpisodes(w io.Writer, result core.EpisodesResult) error {
	if len(result.Episodes) == 0 {
		_, err := fmt.Fprintln(w, "No episodes found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tTITLE\tSUBTITLES\tVERSIONS"); err != nil {
		return err
	}
	for _, e := range result.Episodes {
		subs := strings.Join(mf.UniqueSubtitles(e.Versions), ",")
		if subs == "" {
			subs = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Title, subs, p.paint(pterm.FgCyan, versionBadges(e.Versions))); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printAsset(w io.Writer, a AssetOutput) error {
	_, err := fmt.Fprintf(w, "wrote %s (%s, %d bytes)\n", a.Path, a.MIME, a.Size)
	return err
}

func formatYear(year *int) string {
	if year == nil {
		return "-"
	}
	return strconv.Itoa(*year)
}

func serverNames(servers []mf.ServerRef) string {
	names := make([]string, 0, len(servers))
	for _, s := range servers {
		name := s.Name
		if name == "" {
			name = s.ID
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// versionBadges renders one badge per version, with CC when subtitles exist.
func versionBadges(versions []mf.MediaVersion) string {
	badges := make([]string, 0, len(versions)+1)
	for _, v := range versions {
		if badge := mf.FormatResolution(v.VideoResolution); badge != "" {
			badges = append(badges, badge)
		}
	}
	if mf.HasSubtitles(versions) {
		badges = append(badges, "CC")
	}
	if len(badges) == 0 {
		return "-"
	}
	return strings.Join(badges, " ")
}
