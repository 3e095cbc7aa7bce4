package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/tosparser/internal/formula"
	"github.com/specialistvlad/tosparser/internal/ies"
	"github.com/specialistvlad/tosparser/internal/model"
	"github.com/specialistvlad/tosparser/internal/registry"
	"github.com/specialistvlad/tosparser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_ParsePrimary(t *testing.T) {
	ctx, _ := testutil.Context(t)
	env := newEnv(t, world())

	require.NoError(t, NewAttributes(env).ParsePrimary(ctx))
	require.Equal(t, 4, env.Registries.Attributes.Len())

	c, err := env.Registries.Attributes.GetByName("Swordsman_C")
	require.NoError(t, err)
	assert.Equal(t, 101, c.ID)
	assert.Equal(t, "Swordsman_C_Desc{nl}", c.Description)
	assert.True(t, c.IsToggleable)
	assert.True(t, c.IsJobWide())
	assert.Equal(t, model.LevelUnset, c.LevelMax)
	assert.Nil(t, c.DescriptionRequired)
	assert.Nil(t, c.Unlock)
	assert.Empty(t, c.UpgradePrice)
	assert.NotNil(t, c.UpgradePrice)

	thrust, err := env.Registries.Attributes.GetByName("Swordsman_Thrust_Abil")
	require.NoError(t, err)
	assert.False(t, thrust.IsToggleable)
	assert.False(t, thrust.IsJobWide())
	assert.Equal(t, "{nl}", thrust.Description)
}

func TestAttributes_ParseLinks(t *testing.T) {
	ctx, _ := testutil.Context(t)
	env := newEnv(t, world())

	require.NoError(t, runAll(ctx, env))

	c, err := env.Registries.Attributes.GetByName("Swordsman_C")
	require.NoError(t, err)

	assert.Equal(t, 3, c.LevelMax)
	assert.Equal(t, []float64{5, 10}, c.UpgradePrice, "levels that cost nothing are dropped")
	assert.Equal(t, []string{"Char1_1", "Char1_2"}, linkNames(c.LinkJobs))
	assert.Nil(t, c.LinkSkill)

	require.NotNil(t, c.DescriptionRequired)
	assert.Equal(t, "{nl}{b}Req_Swordsman{b}{nl}{b}Req_Highlander{b}", *c.DescriptionRequired)

	require.NotNil(t, c.Unlock)
	assert.Equal(t, renderedUnlock, *c.Unlock)

	wantArgs := map[int]model.UnlockArgs{
		1001: {UnlockArgStr: "", UnlockArgNum: "10"},
		1002: {UnlockArgStr: "x", UnlockArgNum: "20"},
	}
	if diff := cmp.Diff(wantArgs, c.UnlockArgs); diff != "" {
		t.Errorf("UnlockArgs mismatch (-want +got):\n%s", diff)
	}

	thrust, err := env.Registries.Attributes.GetByName("Swordsman_Thrust_Abil")
	require.NoError(t, err)
	assert.Equal(t, 1, thrust.LevelMax)
	assert.Equal(t, []float64{100}, thrust.UpgradePrice)
	assert.Empty(t, thrust.LinkJobs, "skill attributes are not job-wide")
	assert.Nil(t, thrust.Unlock)
	require.NotNil(t, thrust.LinkSkill)
	skill, err := thrust.LinkSkill.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Swordsman_Thrust", skill.IDName)
}

func TestAttributes_ParseLinks_SharedUnlockIsRenderedOnce(t *testing.T) {
	ctx, _ := testutil.Context(t)
	files := world()
	files["xml/ability.ies"] = testutil.Table(abilityHeader,
		[]string{"101", "Swordsman_C", "", "", "", "NO", "All"},
		[]string{"105", "Swordsman_D", "", "", "", "NO", "All"},
	)
	files["xml/ability/ability_Swordsman.ies"] = testutil.Table(jobAbilHeader,
		[]string{"Swordsman_C", "", "3", "SCR_ABIL_PRICE", "SCR_UNLOCK_LV", "", "10"},
		[]string{"Swordsman_D", "", "3", "", "SCR_UNLOCK_LV", "", "15"},
	)
	env := newEnv(t, files)

	require.NoError(t, runAll(ctx, env))

	c, err := env.Registries.Attributes.GetByName("Swordsman_C")
	require.NoError(t, err)
	d, err := env.Registries.Attributes.GetByName("Swordsman_D")
	require.NoError(t, err)
	require.NotNil(t, c.Unlock)
	require.NotNil(t, d.Unlock)
	assert.NotEmpty(t, *c.Unlock)
	assert.Equal(t, *c.Unlock, *d.Unlock)
	assert.Empty(t, d.UpgradePrice, "no cost formula means no prices")
}

func TestAttributes_ParseLinks_EmptyUnlockIsFilledLater(t *testing.T) {
	ctx, _ := testutil.Context(t)
	files := world()
	files["script/ability_unlock.lua"] = unlockScript + `
function SCR_EMPTY(pc, strArg, numArg)
    -- nothing
end
`
	files["xml/ability/ability_Swordsman.ies"] = testutil.Table(jobAbilHeader,
		[]string{"Swordsman_C", "@Req_Swordsman", "3", "SCR_ABIL_PRICE", "SCR_EMPTY", "", "10"},
		[]string{"Swordsman_Thrust_Abil", "@Req_Thrust", "1", "SCR_ABIL_FLAT", "", "", ""},
	)
	env := newEnv(t, files)

	require.NoError(t, runAll(ctx, env))

	c, err := env.Registries.Attributes.GetByName("Swordsman_C")
	require.NoError(t, err)
	require.NotNil(t, c.Unlock)
	assert.Equal(t, renderedUnlock, *c.Unlock)
}

func TestAttributes_ParseLinks_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(files map[string]string)
		wantErr error
	}{
		{
			name: "unknown attribute in job table",
			mutate: func(files map[string]string) {
				files["xml/ability/ability_Swordsman.ies"] = testutil.Table(jobAbilHeader,
					[]string{"Swordsman_Z", "", "1", "", "", "", ""})
			},
			wantErr: registry.ErrNotFound,
		},
		{
			name: "unknown skill category",
			mutate: func(files map[string]string) {
				files["xml/ability.ies"] = testutil.Table(abilityHeader,
					[]string{"101", "Swordsman_C", "", "", "", "NO", "All"},
					[]string{"102", "Swordsman_Thrust_Abil", "", "", "", "YES", "Swordsman_Thrust"},
					[]string{"106", "Swordsman_Ghost_Abil", "", "", "", "NO", "Swordsman_Ghost"})
			},
			wantErr: registry.ErrNotFound,
		},
		{
			name: "cost formula fails",
			mutate: func(files map[string]string) {
				files["script/ability_price.lua"] = "function SCR_ABIL_PRICE(self, name, lv, maxLv)\n    return nil + 1\nend\n"
			},
			wantErr: formula.ErrFormula,
		},
		{
			name: "cost formula missing",
			mutate: func(files map[string]string) {
				files["script/ability_price.lua"] = "function SCR_OTHER()\n    return 1\nend\n"
			},
			wantErr: formula.ErrFormula,
		},
		{
			name: "unlock formula missing",
			mutate: func(files map[string]string) {
				files["script/ability_unlock.lua"] = "function SCR_OTHER()\n    return 1\nend\n"
			},
			wantErr: formula.ErrFormula,
		},
		{
			name: "non numeric level",
			mutate: func(files map[string]string) {
				files["xml/ability/ability_Highlander.ies"] = testutil.Table(jobAbilHeader,
					[]string{"Swordsman_C", "", "three", "", "", "", ""})
			},
			wantErr: ies.ErrMalformedRecord,
		},
		{
			name: "price script missing",
			mutate: func(files map[string]string) {
				delete(files, "script/ability_price.lua")
			},
			wantErr: formula.ErrFormula,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			files := world()
			tc.mutate(files)
			env := newEnv(t, files)

			err := runAll(ctx, env)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAttributes_ParseLinks_JobWithoutAttributeTable(t *testing.T) {
	ctx, logs := testutil.Context(t)
	env := newEnv(t, world())

	require.NoError(t, runAll(ctx, env))

	cleric, err := env.Registries.Jobs.GetByName("Char4_1")
	require.NoError(t, err)
	assert.Empty(t, cleric.LinkAttributes)
	assert.Contains(t, logs.String(), "Job has no attribute table")
}

func TestAttributes_PruneInactive(t *testing.T) {
	ctx, _ := testutil.Context(t)
	env := newEnv(t, world())

	require.NoError(t, runAll(ctx, env))

	attributes := env.Registries.Attributes
	assert.False(t, attributes.Has("Highlander_Orphan"), "no job and no skill link")
	assert.False(t, attributes.Has("Highlander_WagonWheel_Abil"), "skill link without a declared level")
	assert.True(t, attributes.Has("Swordsman_C"))
	assert.True(t, attributes.Has("Swordsman_Thrust_Abil"))
	assert.Equal(t, 2, attributes.Len())
	assert.Len(t, attributes.Names(), 2)

	wagonWheel, err := env.Registries.Skills.GetByName("Highlander_WagonWheel")
	require.NoError(t, err)
	assert.Empty(t, wagonWheel.LinkAttributes, "references to pruned attributes are stripped")
}

// Every link held by any entity still resolves once pruning is done.
func TestAttributes_PruneInactive_LeavesNoDanglingLinks(t *testing.T) {
	ctx, _ := testutil.Context(t)
	env := newEnv(t, world())
	regs := env.Registries

	require.NoError(t, runAll(ctx, env))

	resolveAll := func(t *testing.T, resolve func() error) {
		t.Helper()
		assert.NoError(t, resolve())
	}

	for _, job := range regs.Jobs.All() {
		for _, l := range job.LinkAttributes {
			resolveAll(t, func() error { _, err := l.Resolve(); return err })
		}
		for _, l := range job.LinkSkills {
			resolveAll(t, func() error { _, err := l.Resolve(); return err })
		}
	}
	for _, attribute := range regs.Attributes.All() {
		for _, l := range attribute.LinkJobs {
			resolveAll(t, func() error { _, err := l.Resolve(); return err })
		}
		if attribute.LinkSkill != nil {
			resolveAll(t, func() error { _, err := attribute.LinkSkill.Resolve(); return err })
		}
	}
	for _, skill := range regs.Skills.All() {
		for _, l := range skill.LinkAttributes {
			resolveAll(t, func() error { _, err := l.Resolve(); return err })
		}
		if skill.LinkJob != nil {
			resolveAll(t, func() error { _, err := skill.LinkJob.Resolve(); return err })
		}
	}

	for _, r := range []interface {
		Len() int
		Names() map[string]int
	}{regs.Jobs, regs.Attributes, regs.Skills} {
		assert.Equal(t, r.Len(), len(r.Names()))
	}
}

func TestAttributes_PruneInactive_StripsJobReferences(t *testing.T) {
	ctx, _ := testutil.Context(t)
	regs := NewRegistries()
	env := &Env{Registries: regs, Translator: keyTranslator{}, Icons: lowerIcons{}}

	kept := &model.Attribute{ID: 1, IDName: "Swordsman_C", LevelMax: 3, SkillCategory: "All"}
	orphan := &model.Attribute{ID: 2, IDName: "Swordsman_Orphan", LevelMax: model.LevelUnset}
	job := &model.Job{ID: 1001, IDName: "Char1_1"}
	require.NoError(t, regs.Jobs.Put(job))
	kept.LinkJobs = []registry.Link[*model.Job]{regs.Jobs.MakeLink(job.IDName)}
	require.NoError(t, regs.Attributes.Put(kept))
	require.NoError(t, regs.Attributes.Put(orphan))
	job.LinkAttributes = []registry.Link[*model.Attribute]{
		regs.Attributes.MakeLink(kept.IDName),
		regs.Attributes.MakeLink(orphan.IDName),
	}

	require.NoError(t, NewAttributes(env).PruneInactive(ctx))

	assert.False(t, regs.Attributes.Has(orphan.IDName))
	assert.True(t, regs.Attributes.Has(kept.IDName))
	assert.Equal(t, []string{"Swordsman_C"}, linkNames(job.LinkAttributes))
}
