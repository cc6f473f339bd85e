// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/steward/cmd/steward/cli"
	"github.com/bureau-foundation/steward/lib/bootstrap"
	"github.com/bureau-foundation/steward/lib/skill"
	libvault "github.com/bureau-foundation/steward/lib/vault"
)

// Styles for the tree view. ANSI 256-color codes for broad terminal
// compatibility; lipgloss drops them when stdout is not a terminal.
var (
	treeHeaderStyle  = lipgloss.NewStyle().Bold(true)
	treePresentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114")) // green
	treeMissingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // bright red
	treeDetailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // faint gray
)

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:    "tree",
		Summary: "Show which parts of the vault layout are in place",
		Description: `Render the canonical vault layout with presence marks: directories,
seed documents, the agent instructions document, and the skills
symlink. Missing nodes are highlighted; "steward vault init" creates
them.`,
		Usage: "steward vault tree",
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := bootstrap.FromEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()
			renderTree(os.Stdout, collectTree(env.Tree()))
			return nil
		},
	}
}

// treeNode is one row of the layout view.
type treeNode struct {
	// label is the path shown: vault-relative inside the vault
	// section, absolute in the agent home section.
	label string

	present bool

	// detail is a faint annotation (skill count, link target). Absent
	// nodes always show "missing" instead.
	detail string
}

// treeView is the collected presence picture of one vault tree.
type treeView struct {
	vaultDir string
	vault    []treeNode
	agent    []treeNode
}

// collectTree stats every node of the canonical layout.
func collectTree(tree libvault.Tree) treeView {
	view := treeView{vaultDir: tree.VaultDir}

	for _, relative := range libvault.Directories() {
		node := treeNode{label: relative + "/"}
		if info, err := os.Stat(filepath.Join(tree.VaultDir, relative)); err == nil && info.IsDir() {
			node.present = true
		}
		if node.present && relative == "skills" {
			if skills, err := skill.List(tree.SkillsDir()); err == nil {
				node.detail = fmt.Sprintf("%d installed", len(skills))
			}
		}
		view.vault = append(view.vault, node)
	}

	for _, relative := range libvault.SeedDocuments() {
		node := treeNode{label: relative}
		if info, err := os.Stat(filepath.Join(tree.VaultDir, relative)); err == nil && info.Mode().IsRegular() {
			node.present = true
		}
		view.vault = append(view.vault, node)
	}

	instructions := treeNode{label: tree.InstructionsPath()}
	if info, err := os.Stat(tree.InstructionsPath()); err == nil && info.Mode().IsRegular() {
		instructions.present = true
	}
	view.agent = append(view.agent, instructions)

	link := treeNode{label: tree.SkillsLink()}
	if target, err := os.Readlink(tree.SkillsLink()); err == nil {
		link.present = true
		link.detail = "-> " + target
	}
	view.agent = append(view.agent, link)

	return view
}

func renderTree(w io.Writer, view treeView) {
	fmt.Fprintln(w, treeHeaderStyle.Render(view.vaultDir))
	for _, node := range view.vault {
		fmt.Fprintln(w, renderNode(node))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, treeHeaderStyle.Render("agent home"))
	for _, node := range view.agent {
		fmt.Fprintln(w, renderNode(node))
	}
}

func renderNode(node treeNode) string {
	mark := treePresentStyle.Render("✓")
	detail := node.detail
	if !node.present {
		mark = treeMissingStyle.Render("✗")
		detail = "missing"
	}

	line := fmt.Sprintf("  %s %-24s", mark, node.label)
	if detail != "" {
		line += " " + treeDetailStyle.Render(detail)
	}
	return strings.TrimRight(line, " ")
}
