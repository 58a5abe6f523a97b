package domain

// CommandType classifies an authoring console command.
type CommandType int

const (
	CmdUnknown CommandType = iota
	CmdHelp
	CmdNext
	CmdBack
	CmdShow
	CmdSetTitle
	CmdSetDescription
	CmdSetCategory
	CmdSetPublic
	CmdSetPrivate
	CmdSetPrice
	CmdNewIngredient
	CmdDropIngredient
	CmdDeleteIngredient
	CmdCatalog
	CmdAddIngredientStep
	CmdAddCookingStep
	CmdAddTextStep
	CmdRemoveStep
	CmdMoveStep
	CmdSubmit
	CmdQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CmdHelp:
		return "help"
	case CmdNext:
		return "next"
	case CmdBack:
		return "back"
	case CmdShow:
		return "show"
	case CmdSetTitle:
		return "set_title"
	case CmdSetDescription:
		return "set_description"
	case CmdSetCategory:
		return "set_category"
	case CmdSetPublic:
		return "set_public"
	case CmdSetPrivate:
		return "set_private"
	case CmdSetPrice:
		return "set_price"
	case CmdNewIngredient:
		return "new_ingredient"
	case CmdDropIngredient:
		return "drop_ingredient"
	case CmdDeleteIngredient:
		return "delete_ingredient"
	case CmdCatalog:
		return "catalog"
	case CmdAddIngredientStep:
		return "add_ingredient_step"
	case CmdAddCookingStep:
		return "add_cooking_step"
	case CmdAddTextStep:
		return "add_text_step"
	case CmdRemoveStep:
		return "remove_step"
	case CmdMoveStep:
		return "move_step"
	case CmdSubmit:
		return "submit"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed console line. Args holds positional arguments and
// Text the free-form remainder (a title or description).
type Command struct {
	Type CommandType
	Args []string
	Text string
}
