package sns

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

var codeInMessage = regexp.MustCompile(`Your verification code: (\d{6})$`)

func TestStart_SendsSixDigitCode(t *testing.T) {
	sms := &mockSMSSender{}
	var sentMessage string
	sms.On("SendSMS", mock.Anything, "+967771234567", mock.Anything).
		Run(func(args mock.Arguments) { sentMessage = args.String(2) }).
		Return(nil)

	p := NewCodeProvider(sms)
	ch, err := p.Start(context.Background(), "+967771234567")
	require.NoError(t, err)

	assert.NotEmpty(t, ch.ProviderRef)
	assert.NotEmpty(t, ch.CodeSecret)
	assert.Regexp(t, codeInMessage, sentMessage)
	sms.AssertExpectations(t)
}

func TestStart_DeliveryFailure(t *testing.T) {
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns unreachable"))

	p := NewCodeProvider(sms)
	_, err := p.Start(context.Background(), "+967771234567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sms delivery failed")
}

func TestCheck_RoundTrip(t *testing.T) {
	sms := &mockSMSSender{}
	var sentMessage string
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sentMessage = args.String(2) }).
		Return(nil)

	p := NewCodeProvider(sms)
	ch, err := p.Start(context.Background(), "+12025550123")
	require.NoError(t, err)

	code := codeInMessage.FindStringSubmatch(sentMessage)[1]

	approved, err := p.Check(context.Background(), "+12025550123", code, ch.CodeSecret)
	require.NoError(t, err)
	assert.True(t, approved)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	approved, err = p.Check(context.Background(), "+12025550123", wrong, ch.CodeSecret)
	require.NoError(t, err)
	assert.False(t, approved)
}

func TestCheck_MissingSecret(t *testing.T) {
	p := NewCodeProvider(nil)
	approved, err := p.Check(context.Background(), "+12025550123", "123456", "")
	assert.False(t, approved)
	assert.Error(t, err)
}
