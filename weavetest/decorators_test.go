package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/weavetest/assert"
)

func TestDecorator(t *testing.T) {
	create := &Tx{Msg: &Msg{RoutePath: "router/create_will"}}
	activate := &Tx{Msg: &Msg{RoutePath: "router/activate_will"}}

	cases := map[string]struct {
		Decorator   Decorator
		WantErr     *errors.Error
		WantHandler int
	}{
		"passes through": {
			WantHandler: 3,
		},
		"check rejected": {
			Decorator:   Decorator{CheckErr: errors.ErrUnauthorized},
			WantErr:     errors.ErrUnauthorized,
			WantHandler: 2,
		},
		"everything rejected": {
			Decorator: Decorator{CheckErr: errors.ErrUnauthorized, DeliverErr: errors.ErrUnauthorized},
			WantErr:   errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var h Handler
			d := tc.Decorator
			stack := Decorate(&h, &d)
			ctx := context.Background()

			_, err := stack.Check(ctx, nil, create)
			if tc.Decorator.CheckErr != nil {
				assert.IsErr(t, tc.WantErr, err)
			} else {
				assert.Nil(t, err)
			}
			_, err = stack.Deliver(ctx, nil, create)
			if tc.Decorator.DeliverErr != nil {
				assert.IsErr(t, tc.WantErr, err)
			} else {
				assert.Nil(t, err)
			}
			_, _ = stack.Deliver(ctx, nil, activate)

			// failed calls are recorded as well
			assert.Equal(t, 1, d.CheckCallCount())
			assert.Equal(t, 2, d.DeliverCallCount())
			assert.Equal(t, 3, d.CallCount())
			assert.Equal(t, []string{"router/create_will", "router/activate_will"}, d.Delivered())
			assert.Equal(t, tc.WantHandler, h.CallCount())
		})
	}
}
