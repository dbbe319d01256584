package agentrun

import "github.com/adw-sh/adw/internal/types"

// slashCommandModel maps each slash command to the model tier that should
// handle it: opus for work requiring judgment, sonnet for routine,
// mostly-mechanical transformations.
var slashCommandModel = map[types.SlashCommand]types.Model{
	types.CmdImplement:          types.ModelOpus,
	types.CmdReview:             types.ModelOpus,
	types.CmdFeature:            types.ModelOpus,
	types.CmdBug:                types.ModelOpus,
	types.CmdChore:              types.ModelOpus,
	types.CmdPatch:              types.ModelOpus,
	types.CmdResolveFailedTest:  types.ModelOpus,

	types.CmdClassifyIssue:      types.ModelSonnet,
	types.CmdClassifyADW:        types.ModelSonnet,
	types.CmdCommit:             types.ModelSonnet,
	types.CmdPullRequest:        types.ModelSonnet,
	types.CmdFindPlanFile:       types.ModelSonnet,
	types.CmdGenerateBranchName: types.ModelSonnet,
	types.CmdTest:               types.ModelSonnet,
	types.CmdDocument:           types.ModelSonnet,
	types.CmdPrepareApp:         types.ModelSonnet,
	types.CmdConditionalDocs:    types.ModelSonnet,
}

// ModelForCommand returns the recommended model for slash, defaulting to
// sonnet for anything not in the map.
func ModelForCommand(slash types.SlashCommand) types.Model {
	if m, ok := slashCommandModel[slash]; ok {
		return m
	}
	return types.ModelSonnet
}
