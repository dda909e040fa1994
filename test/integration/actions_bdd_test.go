//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/catalog"
	"github.com/eliteGoblin/syscmd/internal/confirm"
	"github.com/eliteGoblin/syscmd/internal/daemon"
	"github.com/eliteGoblin/syscmd/internal/domain"
	"github.com/eliteGoblin/syscmd/internal/infra"
	"github.com/eliteGoblin/syscmd/internal/usecase"
	"github.com/eliteGoblin/syscmd/test/fixtures"
)

const linkList = `1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000\    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00
2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 qdisc fq_codel state UP mode DEFAULT group default qlen 1000\    link/ether 52:54:00:12:34:56 brd ff:ff:ff:ff:ff:ff
`

var _ = Describe("Action orchestration", func() {
	var (
		tmpDir    string
		sysfsRoot string
		auditLog  *infra.FileAuditLog
		executor  *fixtures.FakeExecutor
		poller    *daemon.Poller
		engine    *confirm.Engine
		profile   domain.PlatformProfile
		orch      *usecase.Orchestrator
		ctx       context.Context
		cancel    context.CancelFunc
	)

	writeOperState := func(name, state string) {
		dir := filepath.Join(sysfsRoot, "class", "net", name)
		Expect(os.MkdirAll(dir, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "operstate"), []byte(state+"\n"), 0644)).To(Succeed())
	}

	build := func() {
		cat := catalog.NewWithSysfsRoot(sysfsRoot)
		logger := zap.NewNop()
		prober := infra.NewStateProber(profile, cat, executor, infra.NewGopsutilHost(), tmpDir, logger)
		poller = daemon.NewPoller(daemon.DefaultPollerConfig(), prober, logger)
		engine = confirm.NewEngineWithClock(auditLog, confirm.RealClock(), 2*time.Millisecond, logger)
		orch = usecase.NewOrchestrator(usecase.OrchestratorDeps{
			Profile:          profile,
			Elevated:         true,
			Catalog:          cat,
			Executor:         executor,
			Prober:           prober,
			Refresher:        poller,
			Confirmer:        engine,
			Audit:            auditLog,
			CountdownSeconds: 3,
		}, logger)
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "syscmd-integration-*")
		Expect(err).NotTo(HaveOccurred())

		sysfsRoot = filepath.Join(tmpDir, "sys")
		writeOperState("eth0", "up")
		writeOperState("lo", "unknown")

		auditLog = infra.NewFileAuditLog(filepath.Join(tmpDir, "data", infra.DefaultAuditLogName))
		executor = fixtures.NewFakeExecutor().OnOutput("ip -o link show", linkList)
		profile = domain.PlatformLinux
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		build()
	})

	AfterEach(func() {
		cancel()
		os.RemoveAll(tmpDir)
	})

	collect := func(events <-chan domain.ActionEvent) []domain.ActionEvent {
		var all []domain.ActionEvent
		for ev := range events {
			all = append(all, ev)
		}
		return all
	}

	ticksOf := func(events []domain.ActionEvent) []int {
		var ticks []int
		for _, ev := range events {
			if ev.Kind == domain.EventTick {
				ticks = append(ticks, ev.SecondsRemaining)
			}
		}
		return ticks
	}

	Describe("disabling the selected interface", func() {
		BeforeEach(func() {
			Expect(orch.Select(ctx, "eth0")).To(Succeed())
			executor.OnExecute(func(spec domain.CommandSpec) {
				if spec.String() == "ip link set dev eth0 down" {
					writeOperState("eth0", "down")
				}
			})
		})

		Context("when nobody answers the countdown", func() {
			It("should run the command after the countdown and record it", func() {
				events := collect(orch.RequestAction(ctx, domain.InterfaceDown(""), nil))

				Expect(ticksOf(events)).To(Equal([]int{3, 2, 1}))
				last := events[len(events)-1]
				Expect(last.Kind).To(Equal(domain.EventCompleted))
				Expect(last.Err).NotTo(HaveOccurred())
				Expect(last.Outcome.Confirmation).To(Equal(domain.ConfirmationApproved))
				Expect(last.Outcome.Executed).To(BeTrue())
				Expect(last.Outcome.Snapshot).NotTo(BeNil())
				Expect(last.Outcome.Snapshot.AdminState).To(Equal(domain.AdminStateDown))

				Expect(executor.Ran("ip link set dev eth0 down")).To(BeTrue())

				entries, err := auditLog.Entries()
				Expect(err).NotTo(HaveOccurred())
				Expect(entries).To(HaveLen(1))
				Expect(entries[0].Description).To(Equal("Network 'eth0' disabled"))
			})

			It("should refresh the interface state after execution", func() {
				poller.Poll(ctx)
				Expect(poller.Current().AdminState).To(Equal(domain.AdminStateUp))

				collect(orch.RequestAction(ctx, domain.InterfaceDown(""), nil))

				Expect(poller.Current().AdminState).To(Equal(domain.AdminStateDown))
				Expect(poller.Current().AdminState.Label()).To(Equal("Offline"))
			})
		})

		Context("when the user answers yes", func() {
			It("should run immediately", func() {
				answers := make(chan domain.Answer, 1)
				answers <- domain.AnswerYes

				events := collect(orch.RequestAction(ctx, domain.InterfaceDown(""), answers))

				Expect(len(ticksOf(events))).To(BeNumerically("<=", 1))
				Expect(executor.Ran("ip link set dev eth0 down")).To(BeTrue())
			})
		})

		Context("when the user cancels during the countdown", func() {
			It("should not run and should record the cancellation", func() {
				answers := make(chan domain.Answer, 1)
				answers <- domain.AnswerCancel

				events := collect(orch.RequestAction(ctx, domain.InterfaceDown(""), answers))

				last := events[len(events)-1]
				Expect(last.Outcome.Confirmation).To(Equal(domain.ConfirmationCancelled))
				Expect(executor.Ran("ip link set dev eth0 down")).To(BeFalse())

				text, err := auditLog.ReadAll()
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(MatchRegexp(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] Action 'Disable network' cancelled by user\.\n$`))
			})
		})
	})

	Describe("interface intents without a selection", func() {
		It("should refuse an explicit interface name too", func() {
			answers := make(chan domain.Answer, 1)
			answers <- domain.AnswerYes

			outcome, err := orch.Perform(ctx, domain.InterfaceDown("eth0"), answers, nil)
			Expect(err).To(MatchError(domain.ErrNoInterfaceSelected))
			Expect(outcome.Executed).To(BeFalse())
			Expect(answers).To(HaveLen(1), "the confirmation must not consume an answer")
			Expect(executor.Commands()).To(BeEmpty())

			text, err := auditLog.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})

		It("should refuse before any confirmation or audit", func() {
			events := collect(orch.RequestAction(ctx, domain.InterfaceUp(""), nil))

			Expect(ticksOf(events)).To(BeEmpty())
			Expect(events[len(events)-1].Err).To(MatchError(domain.ErrNoInterfaceSelected))
			Expect(executor.Commands()).To(BeEmpty())

			text, err := auditLog.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
			_, statErr := os.Stat(auditLog.Path())
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})
	})

	Describe("simple confirmations", func() {
		Context("when the user declines a lock", func() {
			It("should record the cancellation and not lock", func() {
				answers := make(chan domain.Answer, 1)
				answers <- domain.AnswerNo

				outcome, err := orch.Perform(ctx, domain.Lock(), answers, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(outcome.Confirmation).To(Equal(domain.ConfirmationCancelled))
				Expect(executor.Ran("gnome-screensaver-command -l")).To(BeFalse())

				entries, err := auditLog.Entries()
				Expect(err).NotTo(HaveOccurred())
				Expect(entries).To(HaveLen(1))
				Expect(entries[0].Description).To(Equal("Action 'Lock' cancelled by user."))
			})
		})

		Context("when the lock tool is missing", func() {
			It("should fall back to the alternative locker", func() {
				executor.OnMissing("gnome-screensaver-command -l")
				answers := make(chan domain.Answer, 1)
				answers <- domain.AnswerYes

				outcome, err := orch.Perform(ctx, domain.Lock(), answers, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(outcome.Result.Command).To(Equal("dm-tool lock"))

				entries, err := auditLog.Entries()
				Expect(err).NotTo(HaveOccurred())
				Expect(entries[len(entries)-1].Description).To(Equal("Computer locked"))
			})
		})
	})

	Describe("unsupported platforms", func() {
		BeforeEach(func() {
			profile = domain.PlatformUnsupported
			build()
		})

		It("should inform the user and never record a shutdown", func() {
			answers := make(chan domain.Answer, 1)
			answers <- domain.AnswerYes

			outcome, err := orch.Perform(ctx, domain.Shutdown(), answers, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Unsupported).To(BeTrue())
			Expect(outcome.Message.Severity).To(Equal(domain.SeverityInfo))
			Expect(executor.Commands()).To(BeEmpty())

			text, err := auditLog.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).NotTo(ContainSubstring("Computer shut down"))
		})
	})

	Describe("audit trail", func() {
		It("should keep entries in order with non-decreasing timestamps across reopen", func() {
			answers := make(chan domain.Answer, 3)
			answers <- domain.AnswerYes
			answers <- domain.AnswerYes
			answers <- domain.AnswerYes

			_, err := orch.Perform(ctx, domain.Lock(), answers, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = orch.Perform(ctx, domain.Logout(), answers, nil)
			Expect(err).NotTo(HaveOccurred())

			auditLog = infra.NewFileAuditLog(auditLog.Path())
			build()
			_, err = orch.Perform(ctx, domain.OpenFirewallSettings(), answers, nil)
			Expect(err).NotTo(HaveOccurred())

			entries, err := auditLog.Entries()
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].Description).To(Equal("Computer locked"))
			Expect(entries[1].Description).To(Equal("User logged out"))
			Expect(entries[2].Description).To(Equal("Firewall settings opened"))
			for i := 1; i < len(entries); i++ {
				Expect(entries[i].Timestamp.Before(entries[i-1].Timestamp)).To(BeFalse())
			}
		})
	})
})
