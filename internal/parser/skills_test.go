package parser

import (
	"testing"

	"github.com/specialistvlad/tosparser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkills_ParsePrimary(t *testing.T) {
	ctx, _ := testutil.Context(t)
	env := newEnv(t, world())

	require.NoError(t, NewSkills(env).ParsePrimary(ctx))
	require.Equal(t, 3, env.Registries.Skills.Len())

	thrust, err := env.Registries.Skills.GetByID(10001)
	require.NoError(t, err)
	assert.Equal(t, "Swordsman_Thrust", thrust.IDName)
	assert.Equal(t, "Thrust", thrust.Name)
	assert.Equal(t, "Thrust_Desc", thrust.Description)
	assert.Equal(t, "icon_warri_thrust", thrust.Icon)
	assert.Nil(t, thrust.LinkJob)
	assert.Empty(t, thrust.LinkAttributes)
}

func TestSkills_ParseLinks(t *testing.T) {
	ctx, _ := testutil.Context(t)
	env := newEnv(t, world())

	require.NoError(t, runAll(ctx, env))

	thrust, err := env.Registries.Skills.GetByName("Swordsman_Thrust")
	require.NoError(t, err)
	require.NotNil(t, thrust.LinkJob)
	job, err := thrust.LinkJob.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Char1_1", job.IDName)
	assert.Equal(t, 15, thrust.LevelMax)
	assert.Equal(t, 1, thrust.UnlockGrade)
	assert.Equal(t, 5, thrust.LevelPerGrade)
	assert.Equal(t, []string{"Swordsman_Thrust_Abil"}, linkNames(thrust.LinkAttributes))

	wagonWheel, err := env.Registries.Skills.GetByName("Highlander_WagonWheel")
	require.NoError(t, err)
	require.NotNil(t, wagonWheel.LinkJob)
	assert.Equal(t, "Char1_2", wagonWheel.LinkJob.Name())
	assert.Equal(t, 2, wagonWheel.UnlockGrade)

	heal, err := env.Registries.Skills.GetByName("Cleric_Heal")
	require.NoError(t, err)
	assert.Nil(t, heal.LinkJob, "skill on no tree has no job")
	assert.Zero(t, heal.LevelMax)
}

func TestSkills_ParseLinks_UnknownSkillLeavesNoPartialLink(t *testing.T) {
	ctx, _ := testutil.Context(t)
	files := world()
	files["xml/skilltree.ies"] = testutil.Table(skillTreeHeader,
		[]string{"Char1_1_1", "Swordsman_Thrust", "15", "1", "5"},
		[]string{"Char1_1_2", "Swordsman_Discarded", "5", "1", "5"},
	)
	env := newEnv(t, files)

	require.NoError(t, runAll(ctx, env))

	assert.False(t, env.Registries.Skills.Has("Swordsman_Discarded"))
	for _, job := range env.Registries.Jobs.All() {
		assert.NotContains(t, linkNames(job.LinkSkills), "Swordsman_Discarded")
	}
}
