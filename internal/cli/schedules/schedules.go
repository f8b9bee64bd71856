package schedules

type ScheduleCmd struct {
	Add        ScheduleAddCmd        `cmd:"" help:"Add a schedule item to the daily checklist."`
	List       ScheduleListCmd       `cmd:"" help:"List schedule items." default:"1"`
	Edit       ScheduleEditCmd       `cmd:"" help:"Edit a schedule item."`
	Deactivate ScheduleDeactivateCmd `cmd:"" help:"Hide a schedule item from the checklist."`
	Activate   ScheduleActivateCmd   `cmd:"" help:"Show a deactivated schedule item again."`
	Delete     ScheduleDeleteCmd     `cmd:"" help:"Delete a schedule item and its history."`
	Done       ScheduleDoneCmd       `cmd:"" help:"Mark a schedule item completed for a day."`
	Undo       ScheduleUndoCmd       `cmd:"" help:"Mark a schedule item not completed for a day."`
}
