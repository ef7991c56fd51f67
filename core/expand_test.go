package core

import (
	"errors"
	"testing"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandQuery(t *testing.T) {
	cluster := schema.Cluster{ID: "abc-123", Name: "prod-east"}
	globals := schema.GlobalVars{"duration": "28d", "env": "production"}

	tests := []struct {
		name    string
		rule    schema.Rule
		want    string
		wantErr string
	}{
		{
			name: "sel substitution",
			rule: schema.Rule{Name: "api", Goal: 0.995, Query: "avg_over_time(up{${sel}}[${duration}])"},
			want: "avg_over_time(up{_id='abc-123'}[28d])",
		},
		{
			name: "rule fields available",
			rule: schema.Rule{Name: "api", Goal: 0.995, Query: "sli:${name} >= bool ${goal}"},
			want: "sli:api >= bool 0.995",
		},
		{
			name: "global variables",
			rule: schema.Rule{Name: "api", Goal: 0.9, Query: "up{env='${env}',${sel}}"},
			want: "up{env='production',_id='abc-123'}",
		},
		{
			name: "repeated placeholder",
			rule: schema.Rule{Name: "api", Goal: 0.9, Query: "${duration} ${duration}"},
			want: "28d 28d",
		},
		{
			name: "no placeholders",
			rule: schema.Rule{Name: "api", Goal: 0.9, Query: "vector(1)"},
			want: "vector(1)",
		},
		{
			name:    "undefined variable",
			rule:    schema.Rule{Name: "api", Goal: 0.9, Query: "up{${sel}}[${window}]"},
			wantErr: "window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandQuery(tt.rule, cluster, globals)
			if tt.wantErr != "" {
				require.Error(t, err)
				var undef *contract.UndefinedVariableError
				require.True(t, errors.As(err, &undef), "error should be UndefinedVariableError")
				assert.Equal(t, tt.wantErr, undef.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandQueryDeterministic(t *testing.T) {
	rule := schema.Rule{Name: "api", Goal: 0.995, Query: "avg(up{${sel}}[${duration}])"}
	cluster := schema.Cluster{ID: "c1"}
	globals := schema.GlobalVars{"duration": "28d"}

	first, err := ExpandQuery(rule, cluster, globals)
	require.NoError(t, err)
	for range 5 {
		again, err := ExpandQuery(rule, cluster, globals)
		require.NoError(t, err)
		assert.Equal(t, first, again, "expansion should be deterministic")
	}
}

func TestExpandQueryGlobalOverridesRuleField(t *testing.T) {
	// A global with the same name as a rule field wins over the field.
	rule := schema.Rule{Name: "api", Goal: 0.9, Query: "label=${name}"}
	globals := schema.GlobalVars{"name": "override"}

	got, err := ExpandQuery(rule, schema.Cluster{ID: "c1"}, globals)
	require.NoError(t, err)
	assert.Equal(t, "label=override", got)
}

func TestBuildQueryPlan(t *testing.T) {
	rules := []schema.Rule{
		{Name: "A", Goal: 0.995, Query: "a{${sel}}"},
		{Name: "B", Goal: 0.99, Query: "b{${sel}}"},
	}
	clusters := []schema.Cluster{{ID: "c1"}, {ID: "c2"}}

	t.Run("every pair expanded", func(t *testing.T) {
		jobs, err := BuildQueryPlan(rules, clusters, nil)
		require.NoError(t, err)
		require.Len(t, jobs, 4)

		assert.Equal(t, QueryJob{RuleName: "A", ClusterID: "c1", Query: "a{_id='c1'}"}, jobs[0])
		assert.Equal(t, QueryJob{RuleName: "B", ClusterID: "c1", Query: "b{_id='c1'}"}, jobs[1])
		assert.Equal(t, QueryJob{RuleName: "A", ClusterID: "c2", Query: "a{_id='c2'}"}, jobs[2])
		assert.Equal(t, QueryJob{RuleName: "B", ClusterID: "c2", Query: "b{_id='c2'}"}, jobs[3])
	})

	t.Run("fails fast on configuration defect", func(t *testing.T) {
		bad := append([]schema.Rule{}, rules...)
		bad = append(bad, schema.Rule{Name: "C", Goal: 0.9, Query: "c{${sel}}[${window}]"})

		_, err := BuildQueryPlan(bad, clusters, nil)
		require.Error(t, err)
		var undef *contract.UndefinedVariableError
		assert.True(t, errors.As(err, &undef))
	})

	t.Run("empty clusters yields empty plan", func(t *testing.T) {
		jobs, err := BuildQueryPlan(rules, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})
}
