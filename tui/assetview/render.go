package assetview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/hotload"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/grovetools/hotload/tui/theme"
)

// renderSnapshot renders the material bindings, dictionaries and orphans.
func renderSnapshot(snap hotload.Snapshot, t *theme.Theme) string {
	if snap.Drawable == nil {
		if snap.IsLoading {
			return t.Muted.Render("Waiting for the first compile...")
		}
		return t.Warning.Render("No drawable loaded.")
	}

	var b strings.Builder
	section := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Yellow)

	b.WriteString(section.Render("MATERIALS") + "\n")
	b.WriteString(renderMaterials(snap.Drawable, t) + "\n\n")

	b.WriteString(section.Render("DICTIONARIES") + "\n")
	b.WriteString(renderDictionaries(snap.Drawable, snap.Dictionaries, t) + "\n")

	if len(snap.Orphans) > 0 {
		b.WriteString("\n" + section.Render("MISSING") + "\n")
		for _, name := range snap.Orphans {
			b.WriteString("  " + t.Placeholder.Render(name) + "\n")
		}
	}

	d := snap.Drawable
	b.WriteString("\n" + t.Muted.Render(fmt.Sprintf("%d meshes, %d lights", len(d.Meshes), len(d.Lights))))
	if d.Skeleton != nil {
		b.WriteString(t.Muted.Render(fmt.Sprintf(", skeleton %s (%d bones)", d.Skeleton.Name, len(d.Skeleton.Bones))))
	}
	return b.String()
}

func renderMaterials(d *drawable.Drawable, t *theme.Theme) string {
	tbl := ltable.New().
		Border(lipgloss.HiddenBorder()).
		Headers("MATERIAL", "SLOT", "TEXTURE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return t.Muted
			}
			return lipgloss.NewStyle()
		})

	d.EachTextureVar(func(m *drawable.Material, v *drawable.TextureVar) {
		tbl.Row(m.Name, v.Name, textureLabel(v.Texture, t))
	})
	return tbl.Render()
}

// renderDictionaries lists each dictionary with how many of its textures the
// drawable references.
func renderDictionaries(d *drawable.Drawable, views []hotload.TxdView, t *theme.Theme) string {
	if len(views) == 0 {
		return t.Muted.Render("  none")
	}

	tbl := ltable.New().
		Border(lipgloss.HiddenBorder()).
		Headers("NAME", "TEXTURES", "PATH").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return t.Muted
			}
			return lipgloss.NewStyle()
		})

	for _, v := range views {
		name := v.Name
		if v.Embedded {
			name += " " + t.Accent.Render("(embedded)")
		}
		count := t.Error.Render("degraded")
		if v.Dict != nil {
			missing, used := 0, 0
			for _, tex := range v.Dict.Textures() {
				if tex.IsPlaceholder() {
					missing++
				}
				if d.IsReferenced(tex.OriginalName()) {
					used++
				}
			}
			count = fmt.Sprintf("%d, %d used", v.Dict.Len(), used)
			if missing > 0 {
				count += " " + t.Placeholder.Render(fmt.Sprintf("(%d missing)", missing))
			}
		}
		tbl.Row(name, count, v.Path)
	}
	return tbl.Render()
}

func textureLabel(tex *texture.Texture, t *theme.Theme) string {
	if tex == nil {
		return t.Muted.Render("-")
	}
	if name, ok := tex.Missing(); ok {
		return t.Placeholder.Render(name + " (missing)")
	}
	return fmt.Sprintf("%s %s", tex.Name, t.Muted.Render(fmt.Sprintf("%dx%d, %d mips", tex.Width, tex.Height, len(tex.Levels))))
}
